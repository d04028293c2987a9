package swisskit

import (
	"fmt"
	"sort"
	"strings"
)

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // Swiss-Manager will reject or mangle the row
	SeverityWarning                 // The export works but is probably not what was meant
)

// MarshalText renders the severity as "error" or "warning".
func (s Severity) MarshalText() ([]byte, error) {
	if s == SeverityWarning {
		return []byte("warning"), nil
	}
	return []byte("error"), nil
}

// Issue is a single problem found in a roster.
type Issue struct {
	Severity Severity `json:"severity"`
	PlayerID string   `json:"playerId,omitempty"`
	Column   string   `json:"column,omitempty"`
	Message  string   `json:"message"`
}

// String formats the issue as "[ERROR] #3 Rating: message" or "[WARN] ...".
func (v Issue) String() string {
	sev := "ERROR"
	if v.Severity == SeverityWarning {
		sev = "WARN"
	}
	var where []string
	if v.PlayerID != "" {
		where = append(where, "#"+v.PlayerID)
	}
	if v.Column != "" {
		where = append(where, v.Column)
	}
	if len(where) == 0 {
		return fmt.Sprintf("[%s] %s", sev, v.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", sev, strings.Join(where, " "), v.Message)
}

// Validate checks a roster grid as edited, trailing formula row included,
// and returns the issues found. Formulas are compiled against the first
// row's names; the rest of the checks run on the normalized roster.
func Validate(rows Roster) []Issue {
	return defaultContext.Validate(rows)
}

// Validate is Validate with the Context's helpers and notation.
func (c *Context) Validate(rows Roster) []Issue {
	issues := c.validateFormulas(rows)

	normalized, err := c.Normalize(rows)
	if err != nil {
		return append(issues, Issue{Severity: SeverityError, Message: err.Error()})
	}
	for _, r := range normalized {
		id := r.Get(FieldPlayerID)
		if r.Get(FieldName) == "" {
			continue
		}
		if r[DuplicateColumn] == "true" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				PlayerID: id,
				Column:   string(FieldName),
				Message:  fmt.Sprintf("%q appears more than once", strings.TrimSpace(nameKey(r))),
			})
		}
		if r.Get(FieldGroup) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				PlayerID: id,
				Column:   string(FieldGroup),
				Message:  "no group; the player is only exported with all players",
			})
		}
		if rating := r.Get(FieldRating); rating != "" && strings.Trim(rating, "0123456789") != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				PlayerID: id,
				Column:   string(FieldRating),
				Message:  fmt.Sprintf("rating %q is not a whole number", rating),
			})
		}
		if fide := r.Get(FieldFIDEID); fide != "" && FIDEProfile(fide).URL == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				PlayerID: id,
				Column:   string(FieldFIDEID),
				Message:  fmt.Sprintf("FIDE id %q is not numeric", fide),
			})
		}
		if r.Get(FieldFederation) != "" && r.Get(FieldTeamID) == "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				PlayerID: id,
				Column:   string(FieldTeamID),
				Message:  "federation set but no team id; run fill team",
			})
		}
		if v := strings.Join(cellsWithError(r), ", "); v != "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				PlayerID: id,
				Message:  "formula failed in " + v,
			})
		}
	}
	return issues
}

// validateFormulas compiles the formula cells of the last row.
func (c *Context) validateFormulas(rows Roster) []Issue {
	if len(rows) < 2 {
		return nil
	}
	formulas := Formulas(rows[len(rows)-1])
	cols := make([]string, 0, len(formulas))
	for k := range formulas {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var issues []Issue
	for _, col := range cols {
		if err := c.Check(formulas[col], rows[0]); err != nil {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Column:   col,
				Message:  fmt.Sprintf("invalid formula %q: %v", formulas[col], err),
			})
		}
	}
	return issues
}

func cellsWithError(r Row) []string {
	var cols []string
	for k, v := range r {
		if v == ErrorValue {
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return cols
}
