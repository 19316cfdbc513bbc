package models

// ExtractedText is the immutable product of document extraction: the per-page
// texts that survived the ceilings plus their concatenation.
type ExtractedText struct {
	PageTexts      []string
	Text           string
	PagesProcessed int
	TotalPages     int
	Truncated      bool
}

// SessionResult is the per-session record of the last completed pipeline run.
// It is replaced wholesale when a different document is processed and cleared
// on an explicit cache-clear action.
type SessionResult struct {
	Fingerprint string
	Extracted   *ExtractedText
	Summary     string
	KeyPoints   string
	Completed   bool
}
