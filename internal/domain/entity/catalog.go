package entity

import (
	"fmt"
	"strings"
)

// Kind identifies which directory an item belongs to.
type Kind string

const (
	// KindBento is the bento shop directory.
	KindBento Kind = "bento"
	// KindLocation is the filming location directory.
	KindLocation Kind = "location"
)

// ParseKind converts a query value into a Kind.
// An empty value defaults to KindBento.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindBento:
		return KindBento, nil
	case KindLocation:
		return KindLocation, nil
	default:
		return "", &ValidationError{Field: "kind", Message: fmt.Sprintf("invalid kind %q (must be bento or location)", s)}
	}
}

// Axis identifies a taxonomy dimension.
type Axis string

const (
	// AxisCategory groups items by cuisine or scene type.
	AxisCategory Axis = "category"
	// AxisArea groups items by district.
	AxisArea Axis = "area"
)

// ParseAxis converts a query value into an Axis.
func ParseAxis(s string) (Axis, error) {
	switch Axis(strings.ToLower(strings.TrimSpace(s))) {
	case AxisCategory:
		return AxisCategory, nil
	case AxisArea:
		return AxisArea, nil
	default:
		return "", &ValidationError{Field: "axis", Message: fmt.Sprintf("invalid axis %q (must be category or area)", s)}
	}
}

// Item is a single row of the backing spreadsheet.
// JSON field names match the sheet headers.
type Item struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Area        string `json:"area"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

// Validate checks the fields required before an item is written.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if i.URL != "" {
		if err := ValidateURL(i.URL); err != nil {
			return err
		}
	}
	return nil
}

// ApplyOgp copies resolved metadata into empty item fields.
// Values the user already entered are kept.
func (i *Item) ApplyOgp(r OgpResult) {
	if i.Name == "" {
		i.Name = r.Title
	}
	if i.Description == "" {
		i.Description = r.Description
	}
	if i.Image == "" {
		i.Image = r.Image
	}
}

// Term is a category or area entry.
type Term struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

// Catalog is the full dataset returned by the backend.
type Catalog struct {
	BentoShops         []Item `json:"bentoShops"`
	Locations          []Item `json:"locations"`
	BentoCategories    []Term `json:"bentoCategories"`
	BentoAreas         []Term `json:"bentoAreas"`
	LocationCategories []Term `json:"locationCategories"`
	LocationAreas      []Term `json:"locationAreas"`
}

// Items returns the item list for the given kind.
func (c *Catalog) Items(kind Kind) []Item {
	if kind == KindLocation {
		return c.Locations
	}
	return c.BentoShops
}
