package swisskit

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrDuplicateMapping reports two source columns mapped to the same field.
	ErrDuplicateMapping = errors.New("columns mapped to the same field")
	// ErrUnknownSheet reports a sheet name that is not in the workbook.
	ErrUnknownSheet = errors.New("unknown sheet")
	// ErrDerivedField reports a mapping onto a computed field.
	ErrDerivedField = errors.New("field is derived and cannot be imported")
)

// Workbook is an uploaded spreadsheet read fully into memory.
type Workbook struct {
	Sheets []*Sheet
}

// Sheet is a header line plus data rows, padded to the header width.
type Sheet struct {
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ReadWorkbook reads every sheet of an xlsx document. The first non-empty
// line of a sheet is its header; blank headers are named "Column N".
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	wb := &Workbook{}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read rows from sheet %q: %w", name, err)
		}
		wb.Sheets = append(wb.Sheets, newSheet(name, rows))
	}
	return wb, nil
}

func newSheet(name string, rows [][]string) *Sheet {
	s := &Sheet{Name: name}
	for len(rows) > 0 && isBlankLine(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return s
	}

	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	s.Headers = make([]string, width)
	used := make(map[string]bool, width)
	for i := range s.Headers {
		h := ""
		if i < len(rows[0]) {
			h = strings.TrimSpace(rows[0][i])
		}
		if h == "" {
			h = fmt.Sprintf("Column %d", i+1)
		}
		// headers key the mapping, so repeats get the first free suffix
		name := h
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s (%d)", h, n)
		}
		used[name] = true
		s.Headers[i] = name
	}
	for _, r := range rows[1:] {
		if isBlankLine(r) {
			continue
		}
		line := make([]string, width)
		copy(line, r)
		s.Rows = append(s.Rows, line)
	}
	return s
}

func isBlankLine(r []string) bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// SheetNames lists the sheets in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.Sheets))
	for i, s := range wb.Sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the named sheet; an empty name selects the first one.
func (wb *Workbook) Sheet(name string) (*Sheet, error) {
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnknownSheet)
	}
	if name == "" {
		return wb.Sheets[0], nil
	}
	for _, s := range wb.Sheets {
		if s.Name == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSheet, name)
}

// Mapping maps a sheet header to a player field label. Headers mapped to
// an empty label are ignored.
type Mapping map[string]string

// SuggestMapping maps every header that names an importable field.
func SuggestMapping(headers []string) Mapping {
	m := make(Mapping)
	used := make(map[Field]bool)
	for _, h := range headers {
		f, ok := FieldByLabel(h)
		if !ok || f.Derived() || used[f] {
			continue
		}
		used[f] = true
		m[h] = f.Label()
	}
	return m
}

// ImportableFields lists the fields a column can be mapped to.
func ImportableFields() []Field {
	var out []Field
	for _, f := range Fields {
		if !f.Derived() {
			out = append(out, f)
		}
	}
	return out
}

// ToRoster converts the sheet into roster rows using the mapping. Unmapped
// columns are dropped.
func (s *Sheet) ToRoster(m Mapping) (Roster, error) {
	cols := make(map[int]Field)
	targets := make(map[Field]string)
	for i, h := range s.Headers {
		label := strings.TrimSpace(m[h])
		if label == "" {
			continue
		}
		f, ok := FieldByLabel(label)
		if !ok {
			return nil, fmt.Errorf("column %q: unknown field %q", h, label)
		}
		if f.Derived() {
			return nil, fmt.Errorf("column %q: %w: %s", h, ErrDerivedField, f.Label())
		}
		if prev, dup := targets[f]; dup {
			return nil, fmt.Errorf("%w: %q and %q → %s", ErrDuplicateMapping, prev, h, f.Label())
		}
		targets[f] = h
		cols[i] = f
	}

	out := make(Roster, 0, len(s.Rows))
	for _, line := range s.Rows {
		row := make(Row, len(cols))
		for i, f := range cols {
			row.Set(f, strings.TrimSpace(line[i]))
		}
		out = append(out, row)
	}
	return out, nil
}

// ImportMode selects how imported rows combine with the current roster.
type ImportMode string

const (
	ImportReplace ImportMode = "replace"
	ImportAppend  ImportMode = "append"
)

// MergeImport combines the current roster with imported rows. Appending
// discards a leading placeholder row of the current roster.
func MergeImport(current, imported Roster, mode ImportMode) Roster {
	if mode != ImportAppend {
		return imported.Clone()
	}
	cur := current.Clone()
	if len(cur) > 0 && cur[0].IsBlank() {
		cur = cur[1:]
	}
	return append(cur, imported.Clone()...)
}

// resultColumns maps lowercased standings headers to result columns.
var resultColumns = map[string]string{
	"rank": "rank", "rk": "rank", "rk.": "rank",
	"no": "no", "no.": "no", "sno": "no", "snr": "no",
	"name": "name",
	"team": "team", "club": "team", "club/city": "team",
	"score": "score", "pts": "score", "pts.": "score", "points": "score",
	"tb1": "tb1", "tb2": "tb2", "tb3": "tb3", "tb4": "tb4", "tb5": "tb5",
}

// resultOrder is the column order of a standings sheet without known headers.
var resultOrder = []string{"rank", "no", "name", "team", "score", "tb1", "tb2", "tb3", "tb4", "tb5"}

// ToResults reads the sheet as a standings table. Headers such as "Rk.",
// "SNo" or "Pts." are recognised; when none is, columns are taken in the
// order rank, no, name, team, score, tb1..tb5. The first line is a header
// either way. When two headers name the same column the leftmost wins.
func (s *Sheet) ToResults() []ResultRow {
	cols := make([]string, len(s.Headers))
	taken := make(map[string]bool)
	for i, h := range s.Headers {
		c, ok := resultColumns[strings.ToLower(strings.TrimSpace(h))]
		if ok && !taken[c] {
			cols[i] = c
			taken[c] = true
		}
	}
	if len(taken) == 0 {
		for i := range cols {
			if i < len(resultOrder) {
				cols[i] = resultOrder[i]
			}
		}
	}

	out := make([]ResultRow, 0, len(s.Rows))
	for _, line := range s.Rows {
		var r ResultRow
		for i, c := range cols {
			if c == "" {
				continue
			}
			v := strings.TrimSpace(line[i])
			switch c {
			case "rank":
				r.Rank = v
			case "no":
				r.No = v
			case "name":
				r.Name = v
			case "team":
				r.Team = v
			case "score":
				r.Score = v
			case "tb1":
				r.TB1 = v
			case "tb2":
				r.TB2 = v
			case "tb3":
				r.TB3 = v
			case "tb4":
				r.TB4 = v
			case "tb5":
				r.TB5 = v
			}
		}
		out = append(out, r)
	}
	return CleanResults(out)
}
