package catalog

import (
	"sort"
	"strings"

	"bento-navi/internal/domain/entity"
)

// all is the filter value that matches everything.
const all = "all"

// Criteria narrows an item list. Empty or "all" fields do not constrain.
type Criteria struct {
	Category string
	Area     string
	Price    string
	Query    string
}

// Filter returns the items matching every constraint in c, preserving order.
// Query is matched case-insensitively against name, description and area.
func Filter(items []entity.Item, c Criteria) []entity.Item {
	query := strings.ToLower(strings.TrimSpace(c.Query))

	out := make([]entity.Item, 0, len(items))
	for _, item := range items {
		if !matches(c.Category, item.Category) ||
			!matches(c.Area, item.Area) ||
			!matches(c.Price, item.Price) {
			continue
		}
		if query != "" && !containsFold(query, item.Name, item.Description, item.Area) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matches(want, got string) bool {
	return want == "" || want == all || want == got
}

func containsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// Areas returns the distinct non-empty areas of items, sorted.
func Areas(items []entity.Item) []string {
	seen := make(map[string]struct{}, len(items))
	areas := make([]string, 0)
	for _, item := range items {
		if item.Area == "" {
			continue
		}
		if _, ok := seen[item.Area]; ok {
			continue
		}
		seen[item.Area] = struct{}{}
		areas = append(areas, item.Area)
	}
	sort.Strings(areas)
	return areas
}
