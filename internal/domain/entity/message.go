package entity

// Attachment kinds. Anything that is not an image renders as a
// downloadable document.
const (
	FileTypeImage    = "image"
	FileTypeDocument = "document"
)

// FileAttachment points at an uploaded object in the content store.
type FileAttachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// Message is a single turn in a conversation. ID and Time are the
// creation timestamp in milliseconds since epoch; ordering authority is
// the store's push key, not ID.
type Message struct {
	ID     int64           `json:"id"`
	Text   string          `json:"text"`
	Sender string          `json:"sender"`
	Time   int64           `json:"time"`
	File   *FileAttachment `json:"file,omitempty"`
}
