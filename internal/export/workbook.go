// Package export writes burndown data to spreadsheet workbooks.
package export

import (
	"errors"
	"fmt"
	"io"

	"github.com/alexanderramin/programhub/internal/app"
	"github.com/xuri/excelize/v2"
)

const (
	BurndownSheet = "Burndown"
	SummarySheet  = "Summary"
)

var burndownHeader = []interface{}{"Period", "Date", "Ideal", "Scope line", "Scope", "Remaining", "Scope changed", "Current"}

// WriteBurndownWorkbook writes resp as an xlsx workbook to w. The Burndown
// sheet holds one row per period with a line chart next to it; periods
// without a remaining value are left blank and the chart spans across them.
// The Summary sheet holds the totals and warnings.
func WriteBurndownWorkbook(w io.Writer, resp *app.BurndownResponse) (err error) {
	if resp == nil {
		return errors.New("no burndown to export")
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := f.NewSheet(BurndownSheet); err != nil {
		return fmt.Errorf("creating burndown sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeBurndownRows(f, resp, bold); err != nil {
		return err
	}
	if len(resp.Points) > 0 {
		if err := addBurndownChart(f, resp); err != nil {
			return err
		}
	}
	if err := writeSummary(f, resp, bold); err != nil {
		return err
	}

	if idx, err := f.GetSheetIndex(BurndownSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeBurndownRows(f *excelize.File, resp *app.BurndownResponse, headerStyle int) error {
	if err := f.SetSheetRow(BurndownSheet, "A1", &burndownHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(BurndownSheet, "A1", "H1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, p := range resp.Points {
		row := i + 2
		values := []interface{}{p.Label, p.Date, p.Ideal, p.ScopeLine, p.Scope, nil, flag(p.ScopeChanged), flag(p.IsCurrent)}
		if p.Remaining != nil {
			values[5] = *p.Remaining
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(BurndownSheet, cell, v); err != nil {
				return fmt.Errorf("writing period %s: %w", p.Date, err)
			}
		}
	}

	if err := f.SetColWidth(BurndownSheet, "A", "B", 12); err != nil {
		return err
	}
	return f.SetColWidth(BurndownSheet, "C", "H", 14)
}

func addBurndownChart(f *excelize.File, resp *app.BurndownResponse) error {
	last := len(resp.Points) + 1
	categories := fmt.Sprintf("%s!$A$2:$A$%d", BurndownSheet, last)
	series := func(nameCol, col string) excelize.ChartSeries {
		return excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", BurndownSheet, nameCol),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", BurndownSheet, col, col, last),
		}
	}

	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			series("F", "F"),
			series("C", "C"),
			series("D", "D"),
		},
		Legend:       excelize.ChartLegend{Position: "bottom"},
		ShowBlanksAs: "span",
	}
	if err := f.AddChart(BurndownSheet, "J2", chart); err != nil {
		return fmt.Errorf("adding chart: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, resp *app.BurndownResponse, headerStyle int) error {
	rows := [][]interface{}{
		{"Program", programLabel(resp)},
		{"Scope", scopeLabel(resp)},
		{"Current period", resp.Current.DateKey},
		{"Start total", resp.StartTotal},
		{"Peak scope", resp.PeakScope},
		{"Live total", resp.Live.TotalPoints},
		{"Live completed", resp.Live.CompletedPoints},
		{"Live remaining", resp.Live.Remaining()},
		{"Base scope", resp.Scope.Base},
		{"Current scope", resp.Scope.Current},
		{"Added scope", resp.Scope.Added()},
	}
	if n := len(resp.Periods); n > 0 {
		rows = append(rows, []interface{}{"Timeline", resp.Periods[0].DateKey + " to " + resp.Periods[n-1].DateKey})
	}
	for _, w := range resp.Warnings {
		rows = append(rows, []interface{}{"Warning", w})
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	if err := f.SetCellStyle(SummarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return err
	}
	return f.SetColWidth(SummarySheet, "A", "A", 18)
}

func programLabel(resp *app.BurndownResponse) string {
	if resp.Program == nil {
		return ""
	}
	return resp.Program.DisplayID() + " " + resp.Program.Name
}

func scopeLabel(resp *app.BurndownResponse) string {
	if resp.ScopeLabel != "" {
		return resp.ScopeLabel
	}
	return string(resp.Kind)
}

func flag(b bool) interface{} {
	if b {
		return "yes"
	}
	return nil
}
