package models

// These structs define the JSON payloads exchanged with the UI layer over the
// HTTP surface.

// ProcessResponse is the success payload of POST /v1/documents and
// GET /v1/sessions/{id}.
type ProcessResponse struct {
	SessionID      string `json:"sessionId"`
	Fingerprint    string `json:"fingerprint"`
	Summary        string `json:"summary"`
	KeyPoints      string `json:"keyPoints"`
	ExtractedText  string `json:"extractedText"`
	PagesProcessed int    `json:"pagesProcessed"`
	TotalPages     int    `json:"totalPages"`
	Truncated      bool   `json:"truncated"`
}

// ErrorResponse carries a stable error tag for programmatic handling plus a
// display message. The message never contains the caller's credential.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
