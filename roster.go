package swisskit

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FormulaPrefix marks a formula cell in the last roster row.
const FormulaPrefix = "="

// Normalize recomputes every derived column of the roster.
//
// Cells are trimmed and newlines flattened, ids are assigned by position,
// names are split, duplicates flagged, and a trailing formula row (cells
// starting with "=") is applied to every other row. Rows without a name
// are dropped afterwards. The input is not modified.
func Normalize(rows Roster) (Roster, error) {
	return defaultContext.Normalize(rows)
}

// Normalize is Normalize with the Context's helpers and notation.
func (c *Context) Normalize(rows Roster) (Roster, error) {
	out := rows.Clone()

	seen := make(map[string]Row, len(out))
	for i, row := range out {
		for k, v := range row {
			row[k] = strings.ReplaceAll(strings.TrimSpace(v), "\n", " ")
		}

		row.Set(FieldPlayerID, strconv.Itoa(i+1))
		if name := row.Get(FieldName); name != "" {
			last, first := SplitName(name)
			row.Set(FieldLastname, last)
			row.Set(FieldFirstname, first)
		} else {
			row.Set(FieldLastname, "")
			row.Set(FieldFirstname, "")
		}

		row[DuplicateColumn] = "false"
		key := nameKey(row)
		if prev, ok := seen[key]; ok {
			row[DuplicateColumn] = "true"
			prev[DuplicateColumn] = "true"
		} else {
			seen[key] = row
		}
	}

	if len(out) > 1 {
		if err := c.applyFormulaRow(out[:len(out)-1], out[len(out)-1]); err != nil {
			return nil, err
		}
	}

	kept := out[:0]
	for _, row := range out {
		if row.Get(FieldName) != "" {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

// formulaColumn reports whether a column may carry a formula.
func formulaColumn(k string) bool {
	switch Field(k) {
	case FieldName, FieldLastname, FieldFirstname:
		return false
	}
	return k != ""
}

// Formulas returns the formula cells of a row keyed by column, without the prefix.
func Formulas(row Row) map[string]string {
	var out map[string]string
	for k, v := range row {
		if !formulaColumn(k) || !strings.HasPrefix(v, FormulaPrefix) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[k] = strings.TrimPrefix(v, FormulaPrefix)
	}
	return out
}

// applyFormulaRow renders every formula of tail into the rows.
// Formulas that do not compile are copied literally.
func (c *Context) applyFormulaRow(rows Roster, tail Row) error {
	formulas := Formulas(tail)
	if len(formulas) == 0 {
		return nil
	}
	cols := make([]string, 0, len(formulas))
	for k := range formulas {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var errs []error
	for _, row := range rows {
		for _, col := range cols {
			out, err := c.Render(formulas[col], row)
			switch {
			case err == nil:
				row[col] = out
			case errors.Is(err, ErrTemplateSyntax):
				row[col] = formulas[col]
			default:
				row[col] = ErrorValue
				errs = append(errs, fmt.Errorf("row %s column %s: %w", row.Get(FieldPlayerID), col, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Groups lists the distinct non-empty groups of the roster, sorted.
func Groups(rows Roster) []string {
	set := make(map[string]struct{})
	for _, r := range rows {
		if g := r.Get(FieldGroup); g != "" {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// Gender groups assigned by FillGroup.
const (
	GroupMale   = "m"
	GroupFemale = "f"
)

// FillGroup derives the group from the gender column. Rows without a gender
// land in the male group; unrecognised genders keep their group.
func FillGroup(rows Roster) Roster {
	out := rows.Clone()
	for _, row := range out {
		gender := row.Get(FieldGender)
		if gender == "" {
			row.Set(FieldGroup, GroupMale)
			continue
		}
		switch lowerCaser.String(strings.TrimSpace(gender)) {
		case "m", "male", "man", "nam":
			row.Set(FieldGroup, GroupMale)
		case "f", "female", "women", "nu", "nữ":
			row.Set(FieldGroup, GroupFemale)
		}
	}
	return out
}

// Duplicates returns the rows flagged as sharing a normalized name.
func Duplicates(rows Roster) Roster {
	var out Roster
	for _, r := range rows {
		if r[DuplicateColumn] == "true" {
			out = append(out, r)
		}
	}
	return out
}
