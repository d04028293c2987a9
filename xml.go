package swisskit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// File names offered for download.
const (
	PlayersFileName = "output.xml"
	TeamsFileName   = "teams.xml"
)

// GroupFileName is the download name of a single group's players.
func GroupFileName(group string) string { return group + ".xml" }

// WritePlayersXML writes the Swiss-Manager players document.
// Every row becomes a Player element carrying its non-empty known fields
// except Name, in field order.
func WritePlayersXML(w io.Writer, rows Roster, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var players []xml.StartElement
	for _, row := range rows {
		if o.group != "" && row.Get(FieldGroup) != o.group {
			continue
		}
		el := xml.StartElement{Name: xml.Name{Local: "Player"}}
		for _, f := range Fields {
			v := row.Get(f)
			if v == "" || f == FieldName {
				continue
			}
			el.Attr = append(el.Attr, xml.Attr{Name: xml.Name{Local: string(f)}, Value: v})
		}
		players = append(players, el)
	}
	return writeDocument(w, "Players", players)
}

// PlayersXML returns the players document as bytes.
func PlayersXML(rows Roster, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePlayersXML(&buf, rows, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTeamsXML writes the Swiss-Manager teams document. Rows without an id
// are skipped; the rest are ordered by id.
func WriteTeamsXML(w io.Writer, teams []TeamRow) error {
	var kept []TeamRow
	for _, t := range teams {
		if t.TeamUniqueId != "" {
			kept = append(kept, t)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		a, errA := strconv.Atoi(kept[i].TeamUniqueId)
		b, errB := strconv.Atoi(kept[j].TeamUniqueId)
		if errA != nil || errB != nil {
			return kept[i].TeamUniqueId < kept[j].TeamUniqueId
		}
		return a < b
	})

	elements := make([]xml.StartElement, 0, len(kept))
	for _, t := range kept {
		elements = append(elements, xml.StartElement{
			Name: xml.Name{Local: "Team"},
			Attr: []xml.Attr{
				{Name: xml.Name{Local: "TeamLongname"}, Value: t.Club},
				{Name: xml.Name{Local: "TeamShortname"}, Value: t.Federation},
				{Name: xml.Name{Local: "TeamUniqueId"}, Value: t.TeamUniqueId},
			},
		})
	}
	return writeDocument(w, "Teams", elements)
}

// TeamsXML returns the teams document as bytes.
func TeamsXML(teams []TeamRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTeamsXML(&buf, teams); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeDocument(w io.Writer, root string, children []xml.StartElement) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write xml header: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "\t")

	start := xml.StartElement{Name: xml.Name{Local: root}}
	if err := enc.EncodeToken(start); err != nil {
		return fmt.Errorf("encode %s: %w", root, err)
	}
	for _, child := range children {
		if err := enc.EncodeToken(child); err != nil {
			return fmt.Errorf("encode %s: %w", child.Name.Local, err)
		}
		if err := enc.EncodeToken(child.End()); err != nil {
			return fmt.Errorf("encode %s: %w", child.Name.Local, err)
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("encode %s: %w", root, err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("flush xml: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}
