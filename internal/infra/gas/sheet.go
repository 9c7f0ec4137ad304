package gas

import (
	"bytes"
	"encoding/json"
	"strconv"

	"bento-navi/internal/domain/entity"
)

// cell is a spreadsheet value that may arrive as a string, number, boolean
// or null. Apps Script serializes numeric ids and prices as JSON numbers.
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*c = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cell(s)
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*c = cell(data)
		return nil
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err != nil {
			return err
		}
		*c = cell(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
}

// sheetItem is one item row as returned by getAll.
type sheetItem struct {
	ID          cell `json:"id"`
	URL         cell `json:"url"`
	Name        cell `json:"name"`
	Category    cell `json:"category"`
	Area        cell `json:"area"`
	Price       cell `json:"price"`
	Image       cell `json:"image"`
	Description cell `json:"description"`
	CreatedAt   cell `json:"createdAt"`
}

func (s sheetItem) toEntity() entity.Item {
	return entity.Item{
		ID:          string(s.ID),
		URL:         string(s.URL),
		Name:        string(s.Name),
		Category:    string(s.Category),
		Area:        string(s.Area),
		Price:       string(s.Price),
		Image:       string(s.Image),
		Description: string(s.Description),
		CreatedAt:   string(s.CreatedAt),
	}
}

// sheetTerm is one taxonomy row.
type sheetTerm struct {
	ID        cell `json:"id"`
	Name      cell `json:"name"`
	IsDefault bool `json:"isDefault"`
}

// getAllResponse is the getAll payload.
type getAllResponse struct {
	BentoShops         []sheetItem `json:"bentoShops"`
	Locations          []sheetItem `json:"locations"`
	BentoCategories    []sheetTerm `json:"bentoCategories"`
	BentoAreas         []sheetTerm `json:"bentoAreas"`
	LocationCategories []sheetTerm `json:"locationCategories"`
	LocationAreas      []sheetTerm `json:"locationAreas"`
}

func (r getAllResponse) toCatalog() *entity.Catalog {
	return &entity.Catalog{
		BentoShops:         toItems(r.BentoShops),
		Locations:          toItems(r.Locations),
		BentoCategories:    toTerms(r.BentoCategories),
		BentoAreas:         toTerms(r.BentoAreas),
		LocationCategories: toTerms(r.LocationCategories),
		LocationAreas:      toTerms(r.LocationAreas),
	}
}

// toItems converts rows, skipping rows without an id like the sheet script does.
func toItems(rows []sheetItem) []entity.Item {
	items := make([]entity.Item, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		items = append(items, r.toEntity())
	}
	return items
}

func toTerms(rows []sheetTerm) []entity.Term {
	terms := make([]entity.Term, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			continue
		}
		terms = append(terms, entity.Term{ID: string(r.ID), Name: string(r.Name), IsDefault: r.IsDefault})
	}
	return terms
}
