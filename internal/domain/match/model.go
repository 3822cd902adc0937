package match

import (
	"time"

	"github.com/ringsidehq/matchfinder/internal/domain/boxer"
)

// Confidence grades how certain the intent parser is about the
// resolved source boxer.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParserKind records which parsing path produced an intent.
type ParserKind string

const (
	ParserAssisted      ParserKind = "assisted"
	ParserDeterministic ParserKind = "deterministic"
)

// TargetCriteria captures the optional constraints extracted from a
// request. Absent fields mean "unconstrained".
type TargetCriteria struct {
	WeightKG *float64
	Category boxer.Category
	Criteria []string
}

// AmbiguousMatch is a roster candidate offered back to the caller when
// a name resolves to more than one boxer.
type AmbiguousMatch struct {
	ID   string
	Name string
}

// ParsedIntent is the structured reading of a free-text match request.
// When SourceBoxerID is set, Error is always empty; when
// AmbiguousMatches is non-empty, SourceBoxerID is always empty.
type ParsedIntent struct {
	SourceBoxerID    string
	SourceBoxerName  string
	Target           TargetCriteria
	ReferenceDate    *time.Time
	Confidence       Confidence
	ParserUsed       ParserKind
	Error            string
	AmbiguousMatches []AmbiguousMatch
}

func (p ParsedIntent) Resolved() bool {
	return p.SourceBoxerID != ""
}

// CheckResult is the outcome of one compliance dimension.
type CheckResult struct {
	Passed      bool
	Score       int
	Detail      string
	SourceValue float64
	TargetValue float64
	Difference  float64
	Tolerance   float64
}

type IssueType string

const (
	IssueAge          IssueType = "age"
	IssueWeight       IssueType = "weight"
	IssueExperience   IssueType = "experience"
	IssueCategory     IssueType = "category"
	IssueAvailability IssueType = "availability"
)

type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
)

// Issue is a blocking finding; any high-severity issue makes the pair
// non-compliant.
type Issue struct {
	Type     IssueType
	Severity Severity
	Message  string
}

// Warning is a borderline-but-passing finding surfaced for context.
type Warning struct {
	Type    IssueType
	Message string
}

// Result is the full pairwise compliance evaluation. Computed fresh on
// every request, never persisted.
type Result struct {
	IsCompliant     bool
	Score           int
	Issues          []Issue
	Warnings        []Warning
	WeightCheck     CheckResult
	AgeCheck        CheckResult
	ExperienceCheck CheckResult
}

// Notes flattens the result into ordered human-readable lines: the
// three dimension details first, then blocking issues, then warnings.
func (r Result) Notes() []string {
	notes := make([]string, 0, 3+len(r.Issues)+len(r.Warnings))
	notes = append(notes, r.WeightCheck.Detail, r.AgeCheck.Detail, r.ExperienceCheck.Detail)
	for _, issue := range r.Issues {
		notes = append(notes, issue.Message)
	}
	for _, warning := range r.Warnings {
		notes = append(notes, warning.Message)
	}

	return notes
}

// Candidate is a scored opponent returned to the caller.
type Candidate struct {
	Boxer      boxer.Boxer
	ClubName   string
	Score      int
	Notes      []string
	Compliance Result
}
