package period

import (
	"time"

	"github.com/alexanderramin/programhub/internal/domain"
)

const (
	fiscalStartMonth = int(time.January)
	fiscalEndMonth   = int(time.November)
)

// ProgramTimeline returns the first and last month of a program's burndown.
//
// The start is the explicit StartDate, else January of the first fiscal year.
// The end is the latest of the explicit TargetDate, November of the last
// fiscal year and every parseable workstream target completion date.
func ProgramTimeline(p *domain.Program, workstreams []*domain.Workstream) (start, end YearMonth) {
	if p.StartDate != nil {
		start = FromTime(*p.StartDate)
	} else {
		start = YearMonth{Year: 2000 + p.FYStartYear, Month: fiscalStartMonth}
	}

	end = YearMonth{Year: 2000 + p.FYEndYear, Month: fiscalEndMonth}
	if p.TargetDate != nil {
		end = end.Later(FromTime(*p.TargetDate))
	}
	for _, ws := range workstreams {
		if ws == nil {
			continue
		}
		if target, ok := ParseTargetMonth(ws.TargetCompletionDate); ok {
			end = end.Later(target)
		}
	}
	return start, end
}

// Timeline lists every period of a program's burndown.
func Timeline(p *domain.Program, workstreams []*domain.Workstream) []Period {
	return Between(ProgramTimeline(p, workstreams))
}

// Index returns the position of dateKey in periods, or -1.
func Index(periods []Period, dateKey string) int {
	for i, p := range periods {
		if p.DateKey == dateKey {
			return i
		}
	}
	return -1
}
