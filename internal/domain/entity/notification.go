package entity

// Notification event kinds. The tag only selects an icon client-side.
const (
	NotificationChat  = "Chat"
	NotificationOrder = "Pedido"
)

type Notification struct {
	ID          string `json:"id,omitempty"`
	Tipo        string `json:"tipo"`
	Titulo      string `json:"titulo"`
	Descripcion string `json:"descripcion"`
}
