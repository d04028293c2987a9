package swisskit

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Sheet and file names of the generated workbooks.
const (
	SummarySheet    = "Summary"
	ChartSheet      = "Chart"
	RosterSheet     = "Players"
	SummaryFileName = "summary.xlsx"
	RosterFileName  = "players.xlsx"
	teamRowFill     = "BFBFBF"
)

func summaryHeader(by SortBy) []string {
	if by == SortByScore {
		return []string{"Rank", "Team", "Score", "Total Rank", "TB1", "TB2", "TB3", "TB4", "TB5"}
	}
	return []string{"Rank", "Team", "Total Rank", "Score", "TB1", "TB2", "TB3", "TB4", "TB5"}
}

func summaryValues(first, name string, rank, score float64, tb [5]float64, by SortBy) []string {
	primary, secondary := FormatNumber(rank), FormatNumber(score)
	if by == SortByScore {
		primary, secondary = secondary, primary
	}
	values := []string{first, name, primary, secondary}
	for _, v := range tb {
		values = append(values, FormatNumber(v))
	}
	return values
}

// WriteSummaryXLSX writes the team summary workbook: one bold grey line per
// team followed by its counted players, and a chart sheet of team totals.
func WriteSummaryXLSX(w io.Writer, summaries []TeamSummary, by SortBy) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	teamStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{teamRowFill}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create team style: %w", err)
	}

	widths := columnWidths{}
	header := summaryHeader(by)
	widths.observeRow(header)
	if err := setRow(f, SummarySheet, 1, header); err != nil {
		return err
	}

	row := 2
	for _, t := range summaries {
		values := summaryValues(strconv.Itoa(t.Place), t.Team, t.Rank, t.Score, t.TB, by)
		widths.observeRow(values)
		if err := setRow(f, SummarySheet, row, values); err != nil {
			return err
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(values), row)
		if err := f.SetCellStyle(SummarySheet, first, last, teamStyle); err != nil {
			return fmt.Errorf("style team row %d: %w", row, err)
		}
		row++

		for j, p := range t.Players {
			values := summaryValues(strconv.Itoa(j+1), p.Name, p.Rank, p.Score, p.TB, by)
			widths.observeRow(values)
			if err := setRow(f, SummarySheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	if err := widths.apply(f, SummarySheet); err != nil {
		return err
	}

	if err := addSummaryChart(f, summaries, by); err != nil {
		return err
	}
	f.SetActiveSheet(0)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write summary workbook: %w", err)
	}
	return nil
}

// addSummaryChart adds a sheet with one row of totals per team and a
// clustered column chart over it.
func addSummaryChart(f *excelize.File, summaries []TeamSummary, by SortBy) error {
	if _, err := f.NewSheet(ChartSheet); err != nil {
		return fmt.Errorf("create chart sheet: %w", err)
	}
	series := SummarySeries(summaries, by)

	header := append([]string{"Team"}, series.Names...)
	if err := setRow(f, ChartSheet, 1, header); err != nil {
		return err
	}
	for i, team := range series.Teams {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{team}
		for _, name := range series.Names {
			values = append(values, series.Values[name][i])
		}
		if err := f.SetSheetRow(ChartSheet, cell, &values); err != nil {
			return fmt.Errorf("write chart row %d: %w", i+2, err)
		}
	}
	if len(series.Teams) == 0 {
		return nil
	}

	lastRow := len(series.Teams) + 1
	chartSeries := make([]excelize.ChartSeries, 0, len(series.Names))
	for i := range series.Names {
		col, _ := excelize.ColumnNumberToName(i + 2)
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", ChartSheet, col),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ChartSheet, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", ChartSheet, col, col, lastRow),
		})
	}
	anchor, _ := excelize.CoordinatesToCellName(len(header)+2, 1)
	if err := f.AddChart(ChartSheet, anchor, &excelize.Chart{
		Type:   excelize.Col,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: "Summary of teams"}},
	}); err != nil {
		return fmt.Errorf("add summary chart: %w", err)
	}
	return nil
}

// WriteRosterXLSX writes the roster with field labels as headers. FIDE ids
// link to the player's ratings profile.
func WriteRosterXLSX(w io.Writer, rows Roster) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", RosterSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	widths := columnWidths{}
	header := make([]string, len(Fields))
	for i, fld := range Fields {
		header[i] = fld.Label()
	}
	widths.observeRow(header)
	if err := setRow(f, RosterSheet, 1, header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(RosterSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, r := range rows {
		values := make([]string, len(Fields))
		for j, fld := range Fields {
			values[j] = r.Get(fld)
		}
		widths.observeRow(values)
		if err := setRow(f, RosterSheet, i+2, values); err != nil {
			return err
		}

		link := FIDEProfile(r.Get(FieldFIDEID))
		if link.URL == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(fieldColumn(FieldFIDEID), i+2)
		display, tooltip := link.String(), "FIDE profile"
		if err := f.SetCellHyperLink(RosterSheet, cell, link.URL, "External", excelize.HyperlinkOpts{
			Display: &display,
			Tooltip: &tooltip,
		}); err != nil {
			return fmt.Errorf("link %s: %w", cell, err)
		}
	}
	if err := widths.apply(f, RosterSheet); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write roster workbook: %w", err)
	}
	return nil
}

// fieldColumn returns the 1-based export column of a field.
func fieldColumn(f Field) int {
	for i, fld := range Fields {
		if fld == f {
			return i + 1
		}
	}
	return 0
}
