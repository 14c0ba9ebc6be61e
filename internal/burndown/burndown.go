// Package burndown turns a monthly timeline, stored snapshots and live totals
// into the series a burndown chart plots.
package burndown

import (
	"math"

	"github.com/alexanderramin/programhub/internal/domain"
	"github.com/alexanderramin/programhub/internal/period"
)

// Totals are the points recorded for one period.
type Totals struct {
	TotalPoints     int `json:"totalPoints"`
	CompletedPoints int `json:"completedPoints"`
}

// Remaining returns total minus completed. It is not floored at zero, so a
// snapshot that over-reports completion yields a negative value.
func (t Totals) Remaining() int {
	return t.TotalPoints - t.CompletedPoints
}

// ChartPoint is one period of a burndown series. A nil Remaining is a gap:
// renderers treat it as missing data and connect across it.
type ChartPoint struct {
	Label        string `json:"label"`
	Date         string `json:"date"`
	Remaining    *int   `json:"remaining"`
	Ideal        int    `json:"ideal"`
	ScopeLine    int    `json:"scopeLine"`
	Scope        int    `json:"scope"`
	IsCurrent    bool   `json:"isCurrent"`
	ScopeChanged bool   `json:"scopeChanged"`
}

// BuildChartData derives the chart series for periods.
//
// Scope is tracked per period starting from startTotal: a snapshot's total
// replaces it, the current period without a snapshot takes liveTotal, and any
// other period carries the previous value. The ideal line declines linearly
// from startTotal to zero; the scope line has the same shape anchored on the
// peak tracked scope. Remaining starts at the peak, then follows snapshots,
// liveRemaining for the current period and nil everywhere else.
func BuildChartData(
	periods []period.Period,
	snapshots map[string]Totals,
	startTotal, liveRemaining, liveTotal int,
	current period.Period,
) []ChartPoint {
	if len(periods) == 0 {
		return nil
	}

	scopes := make([]int, len(periods))
	running := startTotal
	for i, p := range periods {
		if snap, ok := snapshots[p.DateKey]; ok {
			running = snap.TotalPoints
		} else if p.DateKey == current.DateKey {
			running = liveTotal
		}
		scopes[i] = running
	}

	peak := scopes[0]
	for _, s := range scopes[1:] {
		if s > peak {
			peak = s
		}
	}

	lastIdx := len(periods) - 1
	if lastIdx < 1 {
		lastIdx = 1
	}

	points := make([]ChartPoint, len(periods))
	for i, p := range periods {
		isCurrent := p.DateKey == current.DateKey
		fraction := 1 - float64(i)/float64(lastIdx)

		var remaining *int
		snap, hasSnap := snapshots[p.DateKey]
		switch {
		case i == 0:
			remaining = intPtr(peak)
		case hasSnap:
			remaining = intPtr(snap.Remaining())
		case isCurrent:
			remaining = intPtr(liveRemaining)
		}

		points[i] = ChartPoint{
			Label:        p.ShortLabel,
			Date:         p.DateKey,
			Remaining:    remaining,
			Ideal:        declining(startTotal, fraction),
			ScopeLine:    declining(peak, fraction),
			Scope:        scopes[i],
			IsCurrent:    isCurrent,
			ScopeChanged: i > 0 && scopes[i] != scopes[i-1],
		}
	}
	return points
}

func declining(anchor int, fraction float64) int {
	v := int(math.Round(float64(anchor) * fraction))
	if v < 0 {
		return 0
	}
	return v
}

func intPtr(v int) *int { return &v }

// PeakScope returns the largest tracked scope in points.
func PeakScope(points []ChartPoint) int {
	peak := 0
	for i, p := range points {
		if i == 0 || p.Scope > peak {
			peak = p.Scope
		}
	}
	return peak
}

// ScopeChanges returns the points whose tracked scope differs from the
// previous period.
func ScopeChanges(points []ChartPoint) []ChartPoint {
	var changed []ChartPoint
	for _, p := range points {
		if p.ScopeChanged {
			changed = append(changed, p)
		}
	}
	return changed
}

// Selector picks the totals for one scope out of a stored snapshot.
type Selector func(snap *domain.BurnSnapshot) (Totals, bool)

// ProgramSelector reads the program-level totals.
func ProgramSelector() Selector {
	return func(snap *domain.BurnSnapshot) (Totals, bool) {
		return Totals{TotalPoints: snap.TotalPoints, CompletedPoints: snap.CompletedPoints}, true
	}
}

// WorkstreamSelector reads one workstream's totals. Snapshots recorded
// without workstream detail are skipped.
func WorkstreamSelector(workstreamID string) Selector {
	return func(snap *domain.BurnSnapshot) (Totals, bool) {
		ws, ok := snap.Workstream(workstreamID)
		if !ok {
			return Totals{}, false
		}
		return Totals{TotalPoints: ws.TotalPoints, CompletedPoints: ws.CompletedPoints}, true
	}
}

// SubcomponentSelector reads one subcomponent's totals.
func SubcomponentSelector(workstreamID, subcomponentID string) Selector {
	return func(snap *domain.BurnSnapshot) (Totals, bool) {
		pair, ok := snap.Subcomponent(workstreamID, subcomponentID)
		if !ok {
			return Totals{}, false
		}
		return Totals{TotalPoints: pair.TotalPoints, CompletedPoints: pair.CompletedPoints}, true
	}
}

// OwnerSelector sums the subcomponents in ids, keyed by workstream. A
// snapshot contributes only when it holds at least one of them.
func OwnerSelector(ids map[string][]string) Selector {
	return func(snap *domain.BurnSnapshot) (Totals, bool) {
		var t Totals
		found := false
		for wsID, scIDs := range ids {
			for _, scID := range scIDs {
				if pair, ok := snap.Subcomponent(wsID, scID); ok {
					t.TotalPoints += pair.TotalPoints
					t.CompletedPoints += pair.CompletedPoints
					found = true
				}
			}
		}
		return t, found
	}
}

// SnapshotTotals indexes snapshots by date key using selector.
func SnapshotTotals(snaps []*domain.BurnSnapshot, selector Selector) map[string]Totals {
	out := make(map[string]Totals, len(snaps))
	for _, snap := range snaps {
		if snap == nil {
			continue
		}
		if t, ok := selector(snap); ok {
			out[snap.Date] = t
		}
	}
	return out
}
