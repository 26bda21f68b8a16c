package codemod

// ReviewGuidance tells a human how much scrutiny an automatic change needs
// before merging. Ordering matters: higher values need less review.
type ReviewGuidance uint8

const (
	// RequiresReview marks changes that need a full human review.
	RequiresReview ReviewGuidance = iota
	// RequiresCursoryReview marks changes that need only a quick look.
	RequiresCursoryReview
	// SafeToAutoMerge marks changes that can be merged without review.
	SafeToAutoMerge
)

func (g ReviewGuidance) String() string {
	switch g {
	case RequiresReview:
		return "Requires Review"
	case RequiresCursoryReview:
		return "Requires Cursory Review"
	case SafeToAutoMerge:
		return "Safe To Auto-Merge"
	}
	return "UNKNOWN"
}

// Reference points at external documentation for a codemod.
type Reference struct {
	URL         string
	Description string
}

// ToolMetadata identifies the external tool and rule a codemod remediates
// findings for.
type ToolMetadata struct {
	Name     string
	RuleID   string
	RuleName string
	RuleURL  string
}

// Metadata describes a codemod. Immutable once constructed; Description may
// be empty, in which case the codemod resolves it lazily from its docs.
type Metadata struct {
	Name           string
	Summary        string
	Description    string
	ReviewGuidance ReviewGuidance
	References     []Reference
	Tool           *ToolMetadata
	Language       string
}
