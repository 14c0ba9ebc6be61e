package domain

import "strings"

type WorkStatus string

const (
	StatusNotStarted WorkStatus = "NOT_STARTED"
	StatusInProgress WorkStatus = "IN_PROGRESS"
	StatusDone       WorkStatus = "DONE"
)

// ValidWorkStatuses is the canonical set of accepted status strings.
var ValidWorkStatuses = map[string]bool{
	"NOT_STARTED": true, "IN_PROGRESS": true, "DONE": true,
}

// StatusFromCompletion derives a status from a completion percentage.
func StatusFromCompletion(pct int) WorkStatus {
	switch {
	case pct <= 0:
		return StatusNotStarted
	case pct >= 100:
		return StatusDone
	default:
		return StatusInProgress
	}
}

type UnknownsLevel string

const (
	UnknownsNone         UnknownsLevel = "None"
	UnknownsLow          UnknownsLevel = "Low"
	UnknownsLowModerate  UnknownsLevel = "Low–Moderate"
	UnknownsHigh         UnknownsLevel = "High"
	UnknownsVeryHigh     UnknownsLevel = "Very High / Exploratory"
	DefaultUnknownsLevel               = UnknownsNone
)

// UnknownsLevels lists the levels in ascending order of uncertainty.
var UnknownsLevels = []UnknownsLevel{
	UnknownsNone, UnknownsLow, UnknownsLowModerate, UnknownsHigh, UnknownsVeryHigh,
}

type IntegrationLevel string

const (
	IntegrationSingle          IntegrationLevel = "Single system"
	IntegrationFew             IntegrationLevel = "1–2 systems"
	IntegrationMultiple        IntegrationLevel = "Multiple internal systems"
	IntegrationCrossTeam       IntegrationLevel = "Cross-team / external dependency"
	DefaultIntegrationLevel                     = IntegrationSingle
)

// IntegrationLevels lists the levels in ascending order of complexity.
var IntegrationLevels = []IntegrationLevel{
	IntegrationSingle, IntegrationFew, IntegrationMultiple, IntegrationCrossTeam,
}

// ParseUnknownsLevel maps free text onto a known level. Matching ignores case,
// surrounding whitespace and the difference between "-" and "–".
// Anything unrecognized resolves to the default level.
func ParseUnknownsLevel(s string) UnknownsLevel {
	if l, ok := LookupUnknownsLevel(s); ok {
		return l
	}
	return DefaultUnknownsLevel
}

// LookupUnknownsLevel is ParseUnknownsLevel without the fallback.
func LookupUnknownsLevel(s string) (UnknownsLevel, bool) {
	key := normalizeLevel(s)
	for _, l := range UnknownsLevels {
		if normalizeLevel(string(l)) == key {
			return l, true
		}
	}
	// Short aliases used by the import format and CLI flags.
	switch key {
	case "low-moderate", "lowmoderate", "medium":
		return UnknownsLowModerate, true
	case "very high", "very-high", "exploratory":
		return UnknownsVeryHigh, true
	}
	return "", false
}

// ParseIntegrationLevel maps free text onto a known level, falling back to the
// default for anything unrecognized.
func ParseIntegrationLevel(s string) IntegrationLevel {
	if l, ok := LookupIntegrationLevel(s); ok {
		return l
	}
	return DefaultIntegrationLevel
}

// LookupIntegrationLevel is ParseIntegrationLevel without the fallback.
func LookupIntegrationLevel(s string) (IntegrationLevel, bool) {
	key := normalizeLevel(s)
	for _, l := range IntegrationLevels {
		if normalizeLevel(string(l)) == key {
			return l, true
		}
	}
	switch key {
	case "single":
		return IntegrationSingle, true
	case "1-2", "few":
		return IntegrationFew, true
	case "multiple":
		return IntegrationMultiple, true
	case "cross-team", "external":
		return IntegrationCrossTeam, true
	}
	return "", false
}

func normalizeLevel(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return strings.ReplaceAll(s, "–", "-")
}
