package models

// These structs define the JSON payloads exchanged between the form page and the
// HTTP functions.

// TokenResponse is the output of the auth function.
type TokenResponse struct {
	Token string `json:"token"`
}

// DocumentsRequest is the input for the documents function.
type DocumentsRequest struct {
	ProcessNumber string   `json:"processNumber"`
	DocumentTypes []string `json:"documentTypes"`
}

// DocumentsResponse is the output of the documents function.
type DocumentsResponse struct {
	Documents []Document `json:"documents"`
	GrokText  string     `json:"grokText"`
}

// GrokRequest is the input for the grok function.
type GrokRequest struct {
	GrokText string `json:"grokText"`
}

// GrokResponse is the output of the grok function.
type GrokResponse struct {
	GrokResponse string `json:"grokResponse"`
}

// ErrorResponse is returned by every function on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
