package catalog

import (
	"sync"

	"bento-navi/internal/domain/entity"
)

// Taxonomy is an immutable snapshot of the category, area and price
// vocabularies. Callers must not modify the slices it exposes.
type Taxonomy struct {
	BentoCategories    []entity.Term `json:"bentoCategories"`
	BentoAreas         []entity.Term `json:"bentoAreas"`
	LocationCategories []entity.Term `json:"locationCategories"`
	LocationAreas      []entity.Term `json:"locationAreas"`
	PriceRanges        []entity.Term `json:"priceRanges"`
}

// Terms returns the vocabulary for a kind and axis.
func (t Taxonomy) Terms(kind entity.Kind, axis entity.Axis) []entity.Term {
	switch {
	case kind == entity.KindLocation && axis == entity.AxisArea:
		return t.LocationAreas
	case kind == entity.KindLocation:
		return t.LocationCategories
	case axis == entity.AxisArea:
		return t.BentoAreas
	default:
		return t.BentoCategories
	}
}

// Label returns the display name for id, or id itself when unknown.
func (t Taxonomy) Label(kind entity.Kind, axis entity.Axis, id string) string {
	for _, term := range t.Terms(kind, axis) {
		if term.ID == id {
			return term.Name
		}
	}
	return id
}

// PriceLabel returns the display name of a price range id.
func (t Taxonomy) PriceLabel(id string) string {
	for _, term := range t.PriceRanges {
		if term.ID == id {
			return term.Name
		}
	}
	return id
}

// DefaultTaxonomy returns the built-in vocabularies used in demo mode and
// before the first successful load.
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		BentoCategories: []entity.Term{
			{ID: "onigiri", Name: "おにぎり・サンド", IsDefault: true},
			{ID: "meat", Name: "肉・魚", IsDefault: true},
			{ID: "chinese", Name: "中華", IsDefault: true},
			{ID: "curry", Name: "カレー", IsDefault: true},
			{ID: "noodle", Name: "麺類", IsDefault: true},
			{ID: "catering", Name: "ケータリング", IsDefault: true},
			{ID: "other", Name: "その他", IsDefault: true},
		},
		BentoAreas:         []entity.Term{},
		LocationCategories: []entity.Term{},
		LocationAreas:      []entity.Term{},
		PriceRanges: []entity.Term{
			{ID: "under500", Name: "〜500円", IsDefault: true},
			{ID: "500to800", Name: "500〜800円", IsDefault: true},
			{ID: "800to1000", Name: "800〜1,000円", IsDefault: true},
			{ID: "over1000", Name: "1,000円〜", IsDefault: true},
		},
	}
}

// TaxonomyFromCatalog builds a snapshot from a backend catalog.
// Price ranges are not stored in the sheet and always come from the defaults.
func TaxonomyFromCatalog(c *entity.Catalog) Taxonomy {
	t := DefaultTaxonomy()
	if c == nil {
		return t
	}
	if len(c.BentoCategories) > 0 {
		t.BentoCategories = cloneTerms(c.BentoCategories)
	}
	t.BentoAreas = cloneTerms(c.BentoAreas)
	t.LocationCategories = cloneTerms(c.LocationCategories)
	t.LocationAreas = cloneTerms(c.LocationAreas)
	return t
}

func cloneTerms(terms []entity.Term) []entity.Term {
	out := make([]entity.Term, len(terms))
	copy(out, terms)
	return out
}

// TaxonomyStore holds the current taxonomy snapshot.
// Replace swaps in a new snapshot; snapshots already handed out are never
// modified.
type TaxonomyStore struct {
	mu      sync.RWMutex
	current Taxonomy
}

// NewTaxonomyStore creates a store seeded with initial.
func NewTaxonomyStore(initial Taxonomy) *TaxonomyStore {
	return &TaxonomyStore{current: initial}
}

// Snapshot returns the current taxonomy.
func (s *TaxonomyStore) Snapshot() Taxonomy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace installs next and returns it.
func (s *TaxonomyStore) Replace(next Taxonomy) Taxonomy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	return next
}

// Update builds the next snapshot from the current one under the write lock.
// fn must not modify the slices of the snapshot it receives.
func (s *TaxonomyStore) Update(fn func(Taxonomy) Taxonomy) Taxonomy {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = fn(s.current)
	return s.current
}

// Label resolves a display name against the current snapshot.
func (s *TaxonomyStore) Label(kind entity.Kind, axis entity.Axis, id string) string {
	return s.Snapshot().Label(kind, axis, id)
}
