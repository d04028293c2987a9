package swisskit

import (
	"fmt"
	"sort"
	"strings"
)

// ResultRow is one line of a final standings table as pasted from Swiss-Manager.
type ResultRow struct {
	Rank  string `json:"rank"`
	No    string `json:"no"`
	Name  string `json:"name"`
	Team  string `json:"team"`
	Score string `json:"score"`
	TB1   string `json:"tb1"`
	TB2   string `json:"tb2"`
	TB3   string `json:"tb3"`
	TB4   string `json:"tb4"`
	TB5   string `json:"tb5"`
}

func (r ResultRow) empty() bool {
	return r.Rank == "" && r.No == "" && r.Name == "" && r.Team == ""
}

// CleanResults drops rows with neither rank, number, name nor team.
func CleanResults(rows []ResultRow) []ResultRow {
	out := make([]ResultRow, 0, len(rows))
	for _, r := range rows {
		if !r.empty() {
			out = append(out, r)
		}
	}
	return out
}

// TeamAlias pairs the short and long spelling of a team name.
type TeamAlias struct {
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
}

// CleanAliases drops alias rows with neither name.
func CleanAliases(rows []TeamAlias) []TeamAlias {
	out := make([]TeamAlias, 0, len(rows))
	for _, a := range rows {
		if a.ShortName != "" || a.LongName != "" {
			out = append(out, a)
		}
	}
	return out
}

// Direction of a team name conversion.
type Direction string

const (
	LongToShort Direction = "lts"
	ShortToLong Direction = "stl"
)

// ConvertTeamNames rewrites team names using the alias table. Only aliases
// with both spellings are used; unknown names are left as they are.
func ConvertTeamNames(rows []ResultRow, aliases []TeamAlias, dir Direction) ([]ResultRow, error) {
	m := make(map[string]string, len(aliases))
	for _, a := range aliases {
		if a.ShortName == "" || a.LongName == "" {
			continue
		}
		switch dir {
		case LongToShort:
			m[a.LongName] = a.ShortName
		case ShortToLong:
			m[a.ShortName] = a.LongName
		default:
			return nil, fmt.Errorf("unknown conversion direction %q", dir)
		}
	}
	out := make([]ResultRow, len(rows))
	copy(out, rows)
	for i := range out {
		if to, ok := m[out[i].Team]; ok && out[i].Team != "" {
			out[i].Team = to
		}
	}
	return out, nil
}

// PlayerResult is a parsed standings row.
type PlayerResult struct {
	Name  string     `json:"name"`
	No    string     `json:"no"`
	Team  string     `json:"team"`
	Rank  float64    `json:"rank"`
	Score float64    `json:"score"`
	TB    [5]float64 `json:"tb"`
}

// TeamSummary aggregates the counted players of one team.
type TeamSummary struct {
	Place   int            `json:"place"`
	Team    string         `json:"team"`
	Players []PlayerResult `json:"players"`
	Rank    float64        `json:"rank"`
	Score   float64        `json:"score"`
	TB      [5]float64     `json:"tb"`
}

func parseResult(r ResultRow) (PlayerResult, error) {
	p := PlayerResult{Name: r.Name, No: r.No, Team: r.Team}
	var err error
	if p.Rank, err = ParseNumber(r.Rank); err != nil {
		return p, fmt.Errorf("rank of %q: %w", r.Name, err)
	}
	if p.Score, err = ParseNumber(r.Score); err != nil {
		return p, fmt.Errorf("score of %q: %w", r.Name, err)
	}
	for i, tb := range []string{r.TB1, r.TB2, r.TB3, r.TB4, r.TB5} {
		if p.TB[i], err = ParseNumber(tb); err != nil {
			return p, fmt.Errorf("tb%d of %q: %w", i+1, r.Name, err)
		}
	}
	return p, nil
}

// Summarize ranks teams from individual standings.
//
// A blank rank repeats the previous row's rank (shared places), the first
// row defaulting to 1. Each team counts its best players (WithTop), chosen
// by rank or by score (WithSortBy), and totals their rank, score and
// tie-breaks. Teams with more counted players always place first.
func Summarize(rows []ResultRow, opts ...Option) ([]TeamSummary, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var order []string
	byTeam := make(map[string]*TeamSummary)
	prevRank := "1"
	for _, r := range rows {
		if r.empty() {
			continue
		}
		if strings.TrimSpace(r.Rank) == "" {
			r.Rank = prevRank
		}
		prevRank = r.Rank

		if r.Team == "" {
			continue
		}
		p, err := parseResult(r)
		if err != nil {
			return nil, err
		}
		ts, ok := byTeam[r.Team]
		if !ok {
			ts = &TeamSummary{Team: r.Team}
			byTeam[r.Team] = ts
			order = append(order, r.Team)
		}
		ts.Players = append(ts.Players, p)
	}

	out := make([]TeamSummary, 0, len(order))
	for _, team := range order {
		ts := byTeam[team]
		sortPlayers(ts.Players, o.sortBy)
		if len(ts.Players) > o.top {
			ts.Players = ts.Players[:o.top]
		}
		for _, p := range ts.Players {
			ts.Rank += p.Rank
			ts.Score += p.Score
			for i := range ts.TB {
				ts.TB[i] += p.TB[i]
			}
		}
		out = append(out, *ts)
	}

	sortTeams(out, o.sortBy)
	for i := range out {
		out[i].Place = i + 1
	}
	return out, nil
}

func sortPlayers(ps []PlayerResult, by SortBy) {
	if by == SortByScore {
		sort.SliceStable(ps, func(i, j int) bool {
			if ps[i].Score != ps[j].Score {
				return ps[i].Score > ps[j].Score
			}
			return ps[i].Rank < ps[j].Rank
		})
		return
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Rank < ps[j].Rank })
}

// teamKey lists the ranking criteria in priority order, oriented so that a
// larger value places higher.
func teamKey(t TeamSummary, by SortBy) []float64 {
	key := []float64{float64(len(t.Players))}
	if by == SortByScore {
		key = append(key, t.Score, -t.Rank)
	} else {
		key = append(key, -t.Rank, t.Score)
	}
	return append(key, t.TB[:]...)
}

func sortTeams(ts []TeamSummary, by SortBy) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := teamKey(ts[i], by), teamKey(ts[j], by)
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return false
	})
}

// Series is the per-team chart data of a summary.
type Series struct {
	Teams  []string             `json:"teams"`
	Names  []string             `json:"names"`
	Values map[string][]float64 `json:"values"`
}

// SummarySeries returns the chart series for summaries, primary criterion first.
func SummarySeries(summaries []TeamSummary, by SortBy) Series {
	names := []string{"rank", "score", "tb1", "tb2", "tb3", "tb4", "tb5"}
	if by == SortByScore {
		names[0], names[1] = names[1], names[0]
	}
	s := Series{Names: names, Values: make(map[string][]float64, len(names))}
	for _, t := range summaries {
		s.Teams = append(s.Teams, t.Team)
		s.Values["rank"] = append(s.Values["rank"], t.Rank)
		s.Values["score"] = append(s.Values["score"], t.Score)
		for i, v := range t.TB {
			name := fmt.Sprintf("tb%d", i+1)
			s.Values[name] = append(s.Values[name], v)
		}
	}
	return s
}
