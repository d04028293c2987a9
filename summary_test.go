package swisskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standings() []ResultRow {
	return []ResultRow{
		{Rank: "1", Name: "A", Team: "X", Score: "6", TB1: "20"},
		{Rank: "2", Name: "B", Team: "Y", Score: "5½", TB1: "21"},
		{Rank: "3", Name: "C", Team: "Z", Score: "5", TB1: "19,5"},
		{Rank: "", Name: "D", Team: "Y", Score: "5", TB1: "18"},
		{Rank: "5", Name: "E", Team: "", Score: "4"},
		{Rank: "6", Name: "F", Team: "X", Score: "3"},
		{Rank: "7", Name: "G", Team: "X", Score: "4½"},
	}
}

func teamNames(ts []TeamSummary) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Team
	}
	return out
}

func TestSummarize_ByRank(t *testing.T) {
	got, err := Summarize(standings())
	require.NoError(t, err)
	require.Len(t, got, 3)

	// X: 1+6, Y: 2+3 (D shares rank 3), Z has one counted player
	assert.Equal(t, []string{"Y", "X", "Z"}, teamNames(got))
	assert.Equal(t, 5.0, got[0].Rank)
	assert.Equal(t, 10.5, got[0].Score)
	assert.Equal(t, 39.0, got[0].TB[0])
	assert.Equal(t, 7.0, got[1].Rank)
	assert.Equal(t, []string{"A", "F"}, []string{got[1].Players[0].Name, got[1].Players[1].Name})
	assert.Equal(t, 3, got[2].Place)
	assert.Equal(t, 19.5, got[2].TB[0])
}

func TestSummarize_ByScore(t *testing.T) {
	got, err := Summarize(standings(), WithSortBy(SortByScore))
	require.NoError(t, err)
	require.Len(t, got, 3)

	// X counts A and G instead of F; Y ties on score and wins on total rank
	assert.Equal(t, []string{"Y", "X", "Z"}, teamNames(got))
	x := got[1]
	assert.Equal(t, 10.5, x.Score)
	assert.Equal(t, 8.0, x.Rank)
	assert.Equal(t, "G", x.Players[1].Name)
	assert.Equal(t, 10.5, got[0].Score)
	assert.Equal(t, 5.0, got[0].Rank)
}

func TestSummarize_Top(t *testing.T) {
	got, err := Summarize(standings(), WithTop(3))
	require.NoError(t, err)
	assert.Equal(t, "X", got[0].Team, "only X has three players")
	assert.Equal(t, 14.0, got[0].Rank)

	got, err = Summarize(standings(), WithTop(0))
	require.NoError(t, err)
	assert.Len(t, got[0].Players, DefaultTop)
}

func TestSummarize_TieBreaks(t *testing.T) {
	got, err := Summarize([]ResultRow{
		{Rank: "2", Name: "a", Team: "A", Score: "3", TB1: "10"},
		{Rank: "1", Name: "b", Team: "B", Score: "4", TB1: "12"},
		{Rank: "2", Name: "c", Team: "C", Score: "3", TB1: "11"},
		{Rank: "1", Name: "d", Team: "D", Score: "4", TB1: "12"},
	})
	require.NoError(t, err)
	// B and D tie on everything and keep their order, TB1 splits C and A
	assert.Equal(t, []string{"B", "D", "C", "A"}, teamNames(got))
	assert.Equal(t, []int{1, 2, 3, 4}, []int{got[0].Place, got[1].Place, got[2].Place, got[3].Place})
}

func TestSummarize_ByScoreTieBreaks(t *testing.T) {
	got, err := Summarize([]ResultRow{
		{Rank: "1", Name: "p", Team: "P", Score: "5", TB1: "10", TB2: "1"},
		{Rank: "1", Name: "q", Team: "Q", Score: "5", TB1: "10", TB2: "2"},
		{Rank: "3", Name: "r", Team: "R", Score: "6"},
		{Rank: "3", Name: "s", Team: "S", Score: "5", TB1: "20", TB2: "9"},
	}, WithSortBy(SortByScore))
	require.NoError(t, err)
	// score first, then the lower total rank, then TB1, TB2
	assert.Equal(t, []string{"R", "Q", "P", "S"}, teamNames(got))
}

func TestSummarize_FirstRowWithoutRank(t *testing.T) {
	got, err := Summarize([]ResultRow{
		{Name: "A", Team: "X"},
		{Name: "B", Team: "X"},
		{},
		{Rank: "3", Name: "C", Team: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got[0].Rank)
	assert.Equal(t, "X", got[0].Team)
}

func TestSummarize_BadNumber(t *testing.T) {
	_, err := Summarize([]ResultRow{{Rank: "1", Name: "A", Team: "X", Score: "six"}})
	assert.ErrorContains(t, err, `score of "A"`)

	got, err := Summarize(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCleanResults(t *testing.T) {
	got := CleanResults([]ResultRow{{Score: "1"}, {Name: "A"}, {}, {No: "3"}})
	assert.Equal(t, []ResultRow{{Name: "A"}, {No: "3"}}, got)
}

func TestConvertTeamNames(t *testing.T) {
	aliases := CleanAliases([]TeamAlias{
		{ShortName: "X", LongName: "Team X"},
		{ShortName: "Y"},
		{},
	})
	require.Len(t, aliases, 2)

	rows := []ResultRow{{Team: "X"}, {Team: "Y"}, {Team: "Team X"}, {Team: ""}}
	got, err := ConvertTeamNames(rows, aliases, ShortToLong)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team X", "Y", "Team X", ""}, []string{got[0].Team, got[1].Team, got[2].Team, got[3].Team})
	assert.Equal(t, "X", rows[0].Team)

	got, err = ConvertTeamNames(rows, aliases, LongToShort)
	require.NoError(t, err)
	assert.Equal(t, "X", got[2].Team)
	assert.Equal(t, "X", got[0].Team)

	_, err = ConvertTeamNames(rows, aliases, Direction("up"))
	assert.Error(t, err)
}

func TestSummarySeries(t *testing.T) {
	ts, err := Summarize(standings(), WithSortBy(SortByScore))
	require.NoError(t, err)

	s := SummarySeries(ts, SortByScore)
	assert.Equal(t, []string{"score", "rank", "tb1", "tb2", "tb3", "tb4", "tb5"}, s.Names)
	assert.Equal(t, []string{"Y", "X", "Z"}, s.Teams)
	assert.Equal(t, []float64{5, 8, 3}, s.Values["rank"])
	assert.Len(t, s.Values["tb5"], 3)

	assert.Equal(t, "rank", SummarySeries(nil, SortByRank).Names[0])
}

func TestParseNumber(t *testing.T) {
	tests := map[string]float64{
		"":        0,
		"3":       3,
		" 4½ ":    4.5,
		"½":       0.5,
		"2Â½":     2.5,
		"19,5":    19.5,
		"1'234":   1234,
		"1 234,5": 1234.5,
		",5":      0.5,
	}
	for in, want := range tests {
		got, err := ParseNumber(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseNumber("x")
	assert.Error(t, err)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", FormatNumber(3))
	assert.Equal(t, "2.5", FormatNumber(2.5))
	assert.Equal(t, "0", FormatNumber(0))
	assert.Equal(t, "0.3", FormatNumber(0.1+0.2))
	assert.Equal(t, "1.23457e+06", FormatNumber(1234567))
	assert.Equal(t, "123456", FormatNumber(123456))
}

func TestParseSortBy(t *testing.T) {
	assert.Equal(t, SortByScore, ParseSortBy("score"))
	assert.Equal(t, SortByRank, ParseSortBy("rank"))
	assert.Equal(t, SortByRank, ParseSortBy(""))
}
