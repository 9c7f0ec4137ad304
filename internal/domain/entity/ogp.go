package entity

// OgpResult is the best-effort metadata resolved for a single URL.
// Every field is independently optional; an empty string means no source
// produced a value. Placeholder text is a presentation concern and is never
// stored here.
type OgpResult struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"` // absolute URL when it could be normalized
}

// IsEmpty reports whether no field was resolved.
func (r OgpResult) IsEmpty() bool {
	return r.Title == "" && r.Description == "" && r.Image == ""
}
