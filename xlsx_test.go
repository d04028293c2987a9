package swisskit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func openXLSX(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestWriteSummaryXLSX(t *testing.T) {
	ts, err := Summarize(standings())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryXLSX(&buf, ts, SortByRank))
	f := openXLSX(t, buf.Bytes())

	assert.Equal(t, []string{SummarySheet, ChartSheet}, f.GetSheetList())
	rows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Rank", "Team", "Total Rank", "Score", "TB1", "TB2", "TB3", "TB4", "TB5"}, rows[0])
	assert.Equal(t, []string{"1", "Y", "5", "10.5", "39", "0", "0", "0", "0"}, rows[1])
	assert.Equal(t, []string{"1", "B", "2", "5.5", "21", "0", "0", "0", "0"}, rows[2])
	assert.Equal(t, []string{"2", "D", "3", "5", "18", "0", "0", "0", "0"}, rows[3])
	assert.Equal(t, "X", rows[4][1])
	// 3 teams, 2+2+1 players, header
	assert.Len(t, rows, 9)

	style, err := f.GetCellStyle(SummarySheet, "B2")
	require.NoError(t, err)
	s, err := f.GetStyle(style)
	require.NoError(t, err)
	assert.True(t, s.Font.Bold)

	width, err := f.GetColWidth(SummarySheet, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Total Rank")+2), width)

	chart, err := f.GetRows(ChartSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team", "rank", "score", "tb1", "tb2", "tb3", "tb4", "tb5"}, chart[0])
	assert.Equal(t, "Y", chart[1][0])
}

func TestWriteSummaryXLSX_FractionalTieBreaks(t *testing.T) {
	ts, err := Summarize([]ResultRow{
		{Rank: "1", Name: "A", Team: "X", Score: "1", TB1: "0.1"},
		{Rank: "2", Name: "B", Team: "X", Score: "1", TB1: "0.2"},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryXLSX(&buf, ts, SortByRank))
	v, err := openXLSX(t, buf.Bytes()).GetCellValue(SummarySheet, "E2")
	require.NoError(t, err)
	assert.Equal(t, "0.3", v)
}

func TestWriteSummaryXLSX_ScoreHeader(t *testing.T) {
	ts, err := Summarize(standings(), WithSortBy(SortByScore))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryXLSX(&buf, ts, SortByScore))
	rows, err := openXLSX(t, buf.Bytes()).GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, "Score", rows[0][2])
	assert.Equal(t, "Total Rank", rows[0][3])
	assert.Equal(t, []string{"1", "Y", "10.5", "5"}, rows[1][:4])
}

func TestWriteSummaryXLSX_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryXLSX(&buf, nil, SortByRank))
	rows, err := openXLSX(t, buf.Bytes()).GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteRosterXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRosterXLSX(&buf, testRoster(t)))
	f := openXLSX(t, buf.Bytes())

	rows, err := f.GetRows(RosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Id", rows[0][0])
	assert.Equal(t, "Team Id", rows[0][11])
	assert.Equal(t, "Novak", rows[1][2])

	cell, err := excelize.CoordinatesToCellName(fieldColumn(FieldFIDEID), 2)
	require.NoError(t, err)
	ok, target, err := f.GetCellHyperLink(RosterSheet, cell)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, FIDEProfileURL+"311", target)

	cell, _ = excelize.CoordinatesToCellName(fieldColumn(FieldFIDEID), 3)
	ok, _, err = f.GetCellHyperLink(RosterSheet, cell)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestColumnWidths(t *testing.T) {
	w := columnWidths{}
	w.observeRow([]string{"ab", "Đặng Thị Hoa"})
	w.observe(1, "a")
	assert.Equal(t, columnWidths{1: 2, 2: 12}, w)
}

func TestFIDEProfile(t *testing.T) {
	assert.Equal(t, HyperlinkValue{URL: FIDEProfileURL + "311", Display: "311"}, FIDEProfile(" 311 "))
	assert.Equal(t, HyperlinkValue{}, FIDEProfile("31a"))
	assert.Equal(t, HyperlinkValue{}, FIDEProfile(""))
	assert.Equal(t, "https://x", Hyperlink("https://x", "").String())
}
