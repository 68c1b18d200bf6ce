package entity

// User is the record shape returned by the external users service. Only
// the fields the chat layer reads are mapped.
type User struct {
	ID       string `json:"id_user"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullname"`
	Mail     string `json:"mail,omitempty"`
	PhotoURL string `json:"photo_url,omitempty"`
}
