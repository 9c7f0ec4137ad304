// Package catalog serves the shop and location directory: catalog reads,
// item and taxonomy writes, backend setup and connection checks.
package catalog

import (
	"context"
	"errors"
	"net"
	"net/http"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/handler/http/respond"
	catUC "bento-navi/internal/usecase/catalog"
)

// Service is the catalog use case consumed by the handlers.
type Service interface {
	Load(ctx context.Context) (catUC.View, error)
	ListItems(ctx context.Context, kind entity.Kind, c catUC.Criteria) ([]entity.Item, error)
	AddItem(ctx context.Context, kind entity.Kind, item entity.Item) (entity.Item, error)
	UpdateItem(ctx context.Context, kind entity.Kind, item entity.Item) error
	DeleteItem(ctx context.Context, kind entity.Kind, id string) error
	AddTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, name string) (entity.Term, error)
	DeleteTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, id string) error
	Setup(ctx context.Context) (catUC.SetupResult, error)
	TestConnection(ctx context.Context) (bool, error)
}

var _ Service = (*catUC.Service)(nil)

// backendMessager is implemented by backend rejections that carry a
// message meant for end users.
type backendMessager interface {
	BackendMessage() string
}

// writeError maps use case errors to HTTP responses.
//
//	validation         -> 400 with the validation message
//	demo mode write    -> 503
//	backend rejection  -> 502 with the script's message
//	deadline           -> 504 (checked before transport errors, which wrap it)
//	backend transport  -> 502
func writeError(w http.ResponseWriter, err error) {
	if vErr, ok := entity.AsValidationError(err); ok {
		respond.SafeError(w, http.StatusBadRequest, vErr)
		return
	}

	var msg backendMessager
	switch {
	case isTimeout(err):
		respond.SafeErrorV2(w, http.StatusGatewayTimeout,
			respond.NewAppError(http.StatusGatewayTimeout, "spreadsheet backend timed out", err))
	case errors.Is(err, catUC.ErrBackendNotConfigured):
		respond.SafeErrorV2(w, http.StatusServiceUnavailable,
			respond.NewAppError(http.StatusServiceUnavailable, "spreadsheet backend is not configured", nil))
	case errors.Is(err, catUC.ErrBackendFailure):
		userMsg := "spreadsheet rejected the request"
		if errors.As(err, &msg) && msg.BackendMessage() != "" {
			userMsg = msg.BackendMessage()
		}
		respond.SafeErrorV2(w, http.StatusBadGateway, respond.NewAppError(http.StatusBadGateway, userMsg, err))
	case errors.Is(err, catUC.ErrBackendUnavailable):
		respond.SafeErrorV2(w, http.StatusBadGateway,
			respond.NewAppError(http.StatusBadGateway, "spreadsheet backend unavailable", err))
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
}

// isTimeout reports a request deadline or an HTTP client timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
