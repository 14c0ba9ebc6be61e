// Package estimate converts duration, uncertainty and integration inputs into
// Fibonacci-scale story points.
package estimate

import (
	"encoding/json"
	"strconv"

	"github.com/alexanderramin/programhub/internal/domain"
)

// BreakDownThresholdDays is the duration at which a task must be split up.
const BreakDownThresholdDays = 30

var anchors = [...]int{1, 3, 5, 8, 13, 21}

// Anchors returns the rounding anchors in ascending order. The slice is a
// copy.
func Anchors() []int {
	return append([]int(nil), anchors[:]...)
}

// Flag is a warning attached to an estimate.
type Flag string

const (
	FlagBreakDownRequired Flag = "break_down_required"
	FlagVeryHighUnknowns  Flag = "very_high_unknowns"
)

// Final is the rounded story point value. It is either a Fibonacci anchor or
// the "21+" overflow sentinel for work too large to estimate as one task.
type Final struct {
	points   int
	overflow bool
}

// Points wraps a numeric final value.
func Points(n int) Final { return Final{points: n} }

// Overflow is the "21+" sentinel.
func Overflow() Final { return Final{points: 21, overflow: true} }

// IsOverflow reports whether the value is the "21+" sentinel.
func (f Final) IsOverflow() bool { return f.overflow }

func (f Final) String() string {
	if f.overflow {
		return "21+"
	}
	return strconv.Itoa(f.points)
}

// MarshalJSON encodes numeric values as numbers and the sentinel as "21+".
func (f Final) MarshalJSON() ([]byte, error) {
	if f.overflow {
		return json.Marshal("21+")
	}
	return json.Marshal(f.points)
}

// FinalAsNumber returns the value for arithmetic, treating "21+" as 21.
func FinalAsNumber(f Final) int {
	return f.points
}

// Result is the full breakdown of one estimate.
type Result struct {
	Base           int    `json:"base"`
	UnknownsAdj    int    `json:"unknownsAdj"`
	IntegrationAdj int    `json:"integrationAdj"`
	Raw            int    `json:"raw"`
	Final          Final  `json:"final"`
	Flags          []Flag `json:"flags"`
}

// HasFlag reports whether the result carries the given flag.
func (r Result) HasFlag(f Flag) bool {
	for _, got := range r.Flags {
		if got == f {
			return true
		}
	}
	return false
}

// ComputeStoryPoints runs the full estimation pipeline. It never fails:
// negative durations count as zero and unknown levels carry no adjustment.
func ComputeStoryPoints(days float64, unknowns domain.UnknownsLevel, integration domain.IntegrationLevel) Result {
	if days < 0 {
		days = 0
	}
	r := Result{
		Base:           BasePoints(days),
		UnknownsAdj:    UnknownsAdjustment(unknowns),
		IntegrationAdj: IntegrationAdjustment(integration),
		Flags:          []Flag{},
	}
	r.Raw = r.Base + r.UnknownsAdj + r.IntegrationAdj

	biasUp := unknowns == domain.UnknownsVeryHigh
	if days >= BreakDownThresholdDays {
		r.Final = Overflow()
		r.Flags = append(r.Flags, FlagBreakDownRequired)
	} else {
		r.Final = Points(RoundToFibonacci(r.Raw, biasUp))
	}
	if biasUp {
		r.Flags = append(r.Flags, FlagVeryHighUnknowns)
	}
	return r
}

// ForEstimation estimates from a stored estimation record. Empty levels fall
// back to their defaults.
func ForEstimation(e domain.Estimation) Result {
	n := e.Normalized()
	return ComputeStoryPoints(n.Days, n.Unknowns, n.Integration)
}

// BasePoints maps a duration in days onto the non-linear base scale.
func BasePoints(days float64) int {
	switch {
	case days <= 0:
		return 0
	case days <= 1:
		return 1
	case days <= 3:
		return 3
	case days <= 5:
		return 5
	case days <= 8:
		return 8
	case days <= 13:
		return 13
	default:
		return 21
	}
}

// UnknownsAdjustment returns the additive adjustment for an uncertainty level.
func UnknownsAdjustment(level domain.UnknownsLevel) int {
	switch level {
	case domain.UnknownsLow:
		return 1
	case domain.UnknownsLowModerate:
		return 2
	case domain.UnknownsHigh:
		return 4
	case domain.UnknownsVeryHigh:
		return 5
	default:
		return 0
	}
}

// IntegrationAdjustment returns the additive adjustment for an integration level.
func IntegrationAdjustment(level domain.IntegrationLevel) int {
	switch level {
	case domain.IntegrationMultiple, domain.IntegrationCrossTeam:
		return 1
	default:
		return 0
	}
}

// RoundToFibonacci rounds raw to an anchor. Exact anchors are returned as-is.
// Otherwise raw rounds up once it reaches the midpoint of its bracketing
// anchors; with biasUp any excess over the lower anchor rounds up.
func RoundToFibonacci(raw int, biasUp bool) int {
	first, last := anchors[0], anchors[len(anchors)-1]
	if raw <= first {
		return first
	}
	if raw >= last {
		return last
	}
	for i := 1; i < len(anchors); i++ {
		lower, upper := anchors[i-1], anchors[i]
		if raw == lower {
			return lower
		}
		if raw > upper {
			continue
		}
		if raw == upper {
			return upper
		}
		if biasUp {
			return upper
		}
		midpoint := float64(lower+upper) / 2
		if float64(raw) >= midpoint {
			return upper
		}
		return lower
	}
	return last
}
