package models

// Document is a case document whose text has been fetched. It lives only for the duration
// of one request.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type,omitempty"`
}
