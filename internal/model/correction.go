package model

// Correction is a literal find-and-replace instruction scoped to one
// narrative: replace the first occurrence of OriginalText with Replacement.
type Correction struct {
	Question     string `json:"question"`      // Which fact the correction remediates
	OriginalText string `json:"original_text"` // Exact substring to locate in the narrative
	Replacement  string `json:"correction"`    // Text that replaces the located span
}
