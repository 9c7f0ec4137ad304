package catalog

import "bento-navi/internal/domain/entity"

// ItemRequest is the body of item create and update requests.
// Id and creation time are assigned by the server on create.
type ItemRequest struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Area        string `json:"area"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
}

func (r ItemRequest) toEntity(id string) entity.Item {
	return entity.Item{
		ID:          id,
		URL:         r.URL,
		Name:        r.Name,
		Category:    r.Category,
		Area:        r.Area,
		Price:       r.Price,
		Image:       r.Image,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// TermRequest is the body of a term create request.
type TermRequest struct {
	Name string `json:"name"`
}

// ItemsResponse wraps a filtered item list.
type ItemsResponse struct {
	Kind  entity.Kind   `json:"kind"`
	Items []entity.Item `json:"items"`
	Count int           `json:"count"`
}

// ConnectionResponse reports the backend connection test.
type ConnectionResponse struct {
	Connected bool `json:"connected"`
}
