package catalog

import (
	"context"

	"bento-navi/internal/domain/entity"
)

// SetupResult is returned by a successful backend setup.
type SetupResult struct {
	Message        string `json:"message,omitempty"`
	SpreadsheetID  string `json:"spreadsheetId,omitempty"`
	SpreadsheetURL string `json:"spreadsheetUrl,omitempty"`
}

// Backend is the spreadsheet API the catalog is persisted in.
//
// Errors:
//   - ErrBackendFailure (wrapped): the backend answered success=false
//   - ErrBackendUnavailable (wrapped): transport error, non-2xx, open circuit
type Backend interface {
	Setup(ctx context.Context) (SetupResult, error)
	GetAll(ctx context.Context) (*entity.Catalog, error)
	AddItem(ctx context.Context, kind entity.Kind, item entity.Item) error
	UpdateItem(ctx context.Context, kind entity.Kind, item entity.Item) error
	DeleteItem(ctx context.Context, kind entity.Kind, id string) error
	AddTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, term entity.Term) error
	DeleteTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, id string) error

	// TestConnection reports whether the backend answers getAll successfully.
	// A success=false answer is (false, nil); only transport errors are returned.
	TestConnection(ctx context.Context) (bool, error)
}
