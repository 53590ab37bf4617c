package model

// AuthorityTier represents the classification of source authority
type AuthorityTier int

const (
	TierUnknown   AuthorityTier = 0 // Not yet classified
	TierPrimary   AuthorityTier = 1 // Government, legislation, academic institutions
	TierSecondary AuthorityTier = 2 // Established news outlets, encyclopedias, non-profits
	TierTertiary  AuthorityTier = 3 // Blogs, forums, social media, everything else
)

func (t AuthorityTier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierSecondary:
		return "secondary"
	case TierTertiary:
		return "tertiary"
	default:
		return "unknown"
	}
}

// SearchResult is one organic hit returned by the search tool
type SearchResult struct {
	Title     string        `json:"title"`
	Link      string        `json:"link"`
	Snippet   string        `json:"snippet"`
	Source    string        `json:"source,omitempty"`
	Authority AuthorityTier `json:"authority"`
}
