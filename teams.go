package swisskit

import (
	"sort"
	"strconv"
	"strings"
)

// TeamRow is one entry of the team table: a federation (short name) and the
// club (long name) it stands for.
type TeamRow struct {
	TeamUniqueId string `json:"TeamUniqueId"`
	Federation   string `json:"Federation"`
	Club         string `json:"Club"`
}

func (t TeamRow) blanks() int {
	n := 0
	for _, v := range []string{t.TeamUniqueId, t.Federation, t.Club} {
		if strings.TrimSpace(v) == "" {
			n++
		}
	}
	return n
}

func (t TeamRow) isBlank() bool { return t.blanks() == 3 }

// NormalizeTeams removes blank rows, keeps one row per federation (the most
// complete one), moves rows without a federation to the end and renumbers ids.
func NormalizeTeams(rows []TeamRow) []TeamRow {
	var withFed, withoutFed []TeamRow
	for _, r := range rows {
		r.Federation = strings.TrimSpace(r.Federation)
		r.Club = strings.TrimSpace(r.Club)
		if r.isBlank() {
			continue
		}
		if r.Federation == "" {
			withoutFed = append(withoutFed, r)
			continue
		}
		withFed = append(withFed, r)
	}

	sort.SliceStable(withFed, func(i, j int) bool {
		return withFed[i].blanks() < withFed[j].blanks()
	})
	seen := make(map[string]bool, len(withFed))
	out := make([]TeamRow, 0, len(withFed)+len(withoutFed))
	for _, r := range withFed {
		if seen[r.Federation] {
			continue
		}
		seen[r.Federation] = true
		out = append(out, r)
	}
	out = append(out, withoutFed...)

	for i := range out {
		out[i].TeamUniqueId = strconv.Itoa(i + 1)
	}
	return out
}

// TeamsFromRoster seeds a team table from the federations and clubs already
// present in the roster, in order of first appearance.
func TeamsFromRoster(rows Roster) []TeamRow {
	var out []TeamRow
	index := make(map[string]int)
	for _, r := range rows {
		fed := strings.TrimSpace(r.Get(FieldFederation))
		if fed == "" {
			continue
		}
		club := strings.TrimSpace(r.Get(FieldClub))
		if i, ok := index[fed]; ok {
			if out[i].Club == "" {
				out[i].Club = club
			}
			continue
		}
		index[fed] = len(out)
		out = append(out, TeamRow{Federation: fed, Club: club})
	}
	return NormalizeTeams(out)
}

// TeamActions tells which team-table actions have something to work with.
type TeamActions struct {
	FillClub       bool `json:"fillClub"`
	FillTeam       bool `json:"fillTeam"`
	FillFederation bool `json:"fillFederation"`
	GenerateTeams  bool `json:"generateTeams"`
}

// Actions reports the enabled actions for the team table.
func Actions(teams []TeamRow) TeamActions {
	var anyFed, anyID bool
	for _, t := range teams {
		anyFed = anyFed || t.Federation != ""
		anyID = anyID || t.TeamUniqueId != ""
	}
	return TeamActions{
		FillClub:       anyFed,
		FillTeam:       anyID,
		FillFederation: anyFed,
		GenerateTeams:  anyID,
	}
}

// lookup builds key → value from team rows where both are set.
func lookup(teams []TeamRow, key, value func(TeamRow) string) map[string]string {
	m := make(map[string]string, len(teams))
	for _, t := range teams {
		k, v := key(t), value(t)
		if k != "" && v != "" {
			m[k] = v
		}
	}
	return m
}

func fill(rows Roster, teams []TeamRow, from, to Field, key, value func(TeamRow) string) Roster {
	m := lookup(teams, key, value)
	out := rows.Clone()
	for _, row := range out {
		if k := row.Get(from); k != "" {
			row.Set(to, m[k])
		}
	}
	return out
}

func teamFederation(t TeamRow) string { return t.Federation }
func teamClub(t TeamRow) string       { return t.Club }
func teamID(t TeamRow) string         { return t.TeamUniqueId }

// FillTeam sets each player's team id from their federation. Players whose
// federation has no team get a blank id.
func FillTeam(rows Roster, teams []TeamRow) Roster {
	return fill(rows, teams, FieldFederation, FieldTeamID, teamFederation, teamID)
}

// FillClub sets each player's club from their federation.
func FillClub(rows Roster, teams []TeamRow) Roster {
	return fill(rows, teams, FieldFederation, FieldClub, teamFederation, teamClub)
}

// FillFederation sets each player's federation from their club.
func FillFederation(rows Roster, teams []TeamRow) Roster {
	return fill(rows, teams, FieldClub, FieldFederation, teamClub, teamFederation)
}
