package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"bento-navi/internal/domain/entity"
	"bento-navi/internal/observability/logging"
	"bento-navi/internal/observability/metrics"

	"github.com/google/uuid"
)

// termIDPrefix marks terms created by users, as opposed to the built-in ones.
const termIDPrefix = "cat_"

// Resolver fills in page metadata for a URL. It never fails; missing fields
// are empty.
type Resolver interface {
	Resolve(ctx context.Context, targetURL string) entity.OgpResult
}

// View is what the directory UI renders: the catalog, the active taxonomy
// and the areas actually used by items.
type View struct {
	Catalog       *entity.Catalog `json:"catalog"`
	Taxonomy      Taxonomy        `json:"taxonomy"`
	BentoAreas    []string        `json:"bentoAreas"`
	LocationAreas []string        `json:"locationAreas"`
	Demo          bool            `json:"demo"`
}

// Config holds catalog service settings.
type Config struct {
	// EnrichTimeout bounds the OGP lookup done by AddItem, so the backend
	// write that follows still fits in the request budget.
	// Default: 15s
	EnrichTimeout time.Duration
}

// DefaultConfig returns the default catalog service configuration.
func DefaultConfig() Config {
	return Config{EnrichTimeout: 15 * time.Second}
}

// Service provides the catalog use cases.
// A nil Backend puts the service in demo mode: reads return the default
// taxonomy and every write fails with ErrBackendNotConfigured.
type Service struct {
	backend  Backend
	resolver Resolver
	store    *TaxonomyStore
	cfg      Config
	newID    func() string
	now      func() time.Time
}

// NewService creates a catalog service. backend and resolver may be nil.
// A zero EnrichTimeout falls back to the default.
func NewService(backend Backend, resolver Resolver, cfg Config) *Service {
	if cfg.EnrichTimeout <= 0 {
		cfg.EnrichTimeout = DefaultConfig().EnrichTimeout
	}
	return &Service{
		backend:  backend,
		resolver: resolver,
		store:    NewTaxonomyStore(DefaultTaxonomy()),
		cfg:      cfg,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Demo reports whether no backend is configured.
func (s *Service) Demo() bool {
	return s.backend == nil
}

// Taxonomy returns the current taxonomy snapshot.
func (s *Service) Taxonomy() Taxonomy {
	return s.store.Snapshot()
}

// Load fetches the catalog and refreshes the taxonomy store.
func (s *Service) Load(ctx context.Context) (View, error) {
	if s.Demo() {
		t := DefaultTaxonomy()
		return View{
			Catalog: &entity.Catalog{
				BentoShops:         []entity.Item{},
				Locations:          []entity.Item{},
				BentoCategories:    t.BentoCategories,
				BentoAreas:         t.BentoAreas,
				LocationCategories: t.LocationCategories,
				LocationAreas:      t.LocationAreas,
			},
			Taxonomy:      t,
			BentoAreas:    []string{},
			LocationAreas: []string{},
			Demo:          true,
		}, nil
	}

	c, err := s.backend.GetAll(ctx)
	if err != nil {
		return View{}, fmt.Errorf("load catalog: %w", err)
	}

	t := s.store.Replace(TaxonomyFromCatalog(c))
	metrics.UpdateCatalogItems(len(c.BentoShops), len(c.Locations))

	return View{
		Catalog:       c,
		Taxonomy:      t,
		BentoAreas:    Areas(c.BentoShops),
		LocationAreas: Areas(c.Locations),
	}, nil
}

// ListItems loads the catalog and returns the items of kind matching c.
func (s *Service) ListItems(ctx context.Context, kind entity.Kind, c Criteria) ([]entity.Item, error) {
	view, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return Filter(view.Catalog.Items(kind), c), nil
}

// AddItem validates item, assigns its id and creation time, and stores it.
// When the item has a URL and a resolver is configured, empty name,
// description and image fields are filled from the page metadata first.
func (s *Service) AddItem(ctx context.Context, kind entity.Kind, item entity.Item) (entity.Item, error) {
	if s.Demo() {
		return entity.Item{}, ErrBackendNotConfigured
	}

	item = trimItem(item)
	if item.URL != "" {
		if err := entity.ValidateURL(item.URL); err != nil {
			return entity.Item{}, fmt.Errorf("validate item URL: %w", err)
		}
		s.enrich(ctx, &item)
	}
	if err := item.Validate(); err != nil {
		return entity.Item{}, fmt.Errorf("validate item: %w", err)
	}

	item.ID = s.newID()
	item.CreatedAt = s.now().UTC().Format(time.RFC3339)

	if err := s.backend.AddItem(ctx, kind, item); err != nil {
		return entity.Item{}, fmt.Errorf("add %s item: %w", kind, err)
	}

	logging.FromContext(ctx).Info("catalog item added",
		slog.String("kind", string(kind)),
		slog.String("id", item.ID))
	return item, nil
}

// UpdateItem replaces the stored item with the same id.
func (s *Service) UpdateItem(ctx context.Context, kind entity.Kind, item entity.Item) error {
	if s.Demo() {
		return ErrBackendNotConfigured
	}

	item = trimItem(item)
	if item.ID == "" {
		return &entity.ValidationError{Field: "id", Message: "id is required"}
	}
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate item: %w", err)
	}

	if err := s.backend.UpdateItem(ctx, kind, item); err != nil {
		return fmt.Errorf("update %s item: %w", kind, err)
	}
	return nil
}

// DeleteItem removes the item with id.
func (s *Service) DeleteItem(ctx context.Context, kind entity.Kind, id string) error {
	if s.Demo() {
		return ErrBackendNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return &entity.ValidationError{Field: "id", Message: "id is required"}
	}

	if err := s.backend.DeleteItem(ctx, kind, id); err != nil {
		return fmt.Errorf("delete %s item: %w", kind, err)
	}
	logging.FromContext(ctx).Info("catalog item deleted",
		slog.String("kind", string(kind)),
		slog.String("id", id))
	return nil
}

// AddTerm creates a category or area named name and adds it to the taxonomy.
func (s *Service) AddTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, name string) (entity.Term, error) {
	if s.Demo() {
		return entity.Term{}, ErrBackendNotConfigured
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.Term{}, &entity.ValidationError{Field: "name", Message: "name is required"}
	}

	term := entity.Term{ID: termIDPrefix + s.newID(), Name: name}
	if err := s.backend.AddTerm(ctx, kind, axis, term); err != nil {
		return entity.Term{}, fmt.Errorf("add %s %s: %w", kind, axis, err)
	}

	s.updateTerms(kind, axis, func(terms []entity.Term) []entity.Term {
		return append(cloneTerms(terms), term)
	})
	return term, nil
}

// DeleteTerm removes a category or area. Built-in terms cannot be deleted.
func (s *Service) DeleteTerm(ctx context.Context, kind entity.Kind, axis entity.Axis, id string) error {
	if s.Demo() {
		return ErrBackendNotConfigured
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return &entity.ValidationError{Field: "id", Message: "id is required"}
	}
	for _, term := range s.store.Snapshot().Terms(kind, axis) {
		if term.ID == id && term.IsDefault {
			return &entity.ValidationError{Field: "id", Message: "default terms cannot be deleted"}
		}
	}

	if err := s.backend.DeleteTerm(ctx, kind, axis, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, axis, err)
	}

	s.updateTerms(kind, axis, func(terms []entity.Term) []entity.Term {
		out := make([]entity.Term, 0, len(terms))
		for _, t := range terms {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	return nil
}

// Setup creates the backend sheets.
func (s *Service) Setup(ctx context.Context) (SetupResult, error) {
	if s.Demo() {
		return SetupResult{}, ErrBackendNotConfigured
	}
	res, err := s.backend.Setup(ctx)
	if err != nil {
		return SetupResult{}, fmt.Errorf("setup backend: %w", err)
	}
	return res, nil
}

// TestConnection reports whether the backend answers. Demo mode is never
// connected.
func (s *Service) TestConnection(ctx context.Context) (bool, error) {
	if s.Demo() {
		return false, nil
	}
	return s.backend.TestConnection(ctx)
}

// enrich fills empty item fields from the item's page metadata.
func (s *Service) enrich(ctx context.Context, item *entity.Item) {
	if s.resolver == nil {
		return
	}
	if item.Name != "" && item.Description != "" && item.Image != "" {
		return
	}

	// The resolver falls back to a URL-derived title once ctx is done.
	ectx, cancel := context.WithTimeout(ctx, s.cfg.EnrichTimeout)
	defer cancel()
	item.ApplyOgp(s.resolver.Resolve(ectx, item.URL))
}

// updateTerms replaces one vocabulary in a fresh snapshot.
func (s *Service) updateTerms(kind entity.Kind, axis entity.Axis, fn func([]entity.Term) []entity.Term) {
	s.store.Update(func(next Taxonomy) Taxonomy {
		switch {
		case kind == entity.KindLocation && axis == entity.AxisArea:
			next.LocationAreas = fn(next.LocationAreas)
		case kind == entity.KindLocation:
			next.LocationCategories = fn(next.LocationCategories)
		case axis == entity.AxisArea:
			next.BentoAreas = fn(next.BentoAreas)
		default:
			next.BentoCategories = fn(next.BentoCategories)
		}
		return next
	})
}

func trimItem(item entity.Item) entity.Item {
	item.ID = strings.TrimSpace(item.ID)
	item.URL = strings.TrimSpace(item.URL)
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)
	item.Area = strings.TrimSpace(item.Area)
	item.Price = strings.TrimSpace(item.Price)
	item.Image = strings.TrimSpace(item.Image)
	item.Description = strings.TrimSpace(item.Description)
	return item
}
