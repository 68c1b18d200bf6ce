package entity

// Organization is a business identity as returned by the external
// organizations service. A chat participant slot may hold an
// organization id instead of a user id.
type Organization struct {
	ID       string `json:"id_business"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}
