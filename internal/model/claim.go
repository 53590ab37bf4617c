package model

import "strings"

// Claim is the statement submitted for verification
type Claim struct {
	Text   string      `json:"text"`             // Claim text, exactly as typed or extracted
	Source ClaimSource `json:"source"`           // Where the text came from
	URL    string      `json:"url,omitempty"`    // Original link when Source is link
}

// ClaimSource records how the claim text was obtained
type ClaimSource string

const (
	ClaimSourceText  ClaimSource = "text"  // Typed into the claim box
	ClaimSourceImage ClaimSource = "image" // OCR output from an uploaded image
	ClaimSourceLink  ClaimSource = "link"  // Expanded from a fetched page
)

// IsEmpty reports whether the claim has no text after trimming whitespace
func (c Claim) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}
