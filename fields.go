package swisskit

import "strings"

// Field is a player attribute understood by Swiss-Manager's XML import.
type Field string

const (
	FieldPlayerID   Field = "PlayerUniqueId"
	FieldName       Field = "Name"
	FieldLastname   Field = "Lastname"
	FieldFirstname  Field = "Firstname"
	FieldGender     Field = "Gender"
	FieldGroup      Field = "Group"
	FieldRating     Field = "Rating"
	FieldTitle      Field = "Title"
	FieldFederation Field = "Federation"
	FieldFIDEID     Field = "FIDEId"
	FieldClub       Field = "Club"
	FieldTeamID     Field = "TeamUniqueId"
	FieldType       Field = "Type"
)

// DuplicateColumn is the hidden column flagging rows that share a normalized name.
const DuplicateColumn = "duplicate"

// Fields lists the known player fields in export order.
var Fields = []Field{
	FieldPlayerID,
	FieldName,
	FieldLastname,
	FieldFirstname,
	FieldGender,
	FieldGroup,
	FieldRating,
	FieldTitle,
	FieldFederation,
	FieldFIDEID,
	FieldClub,
	FieldTeamID,
	FieldType,
}

var fieldLabels = map[Field]string{
	FieldPlayerID:   "Id",
	FieldName:       "Name",
	FieldLastname:   "Last Name",
	FieldFirstname:  "First Name",
	FieldGender:     "Gender",
	FieldGroup:      "Group",
	FieldRating:     "Rating",
	FieldTitle:      "Title",
	FieldFederation: "Federation",
	FieldFIDEID:     "FIDE Id",
	FieldClub:       "Club",
	FieldTeamID:     "Team Id",
	FieldType:       "Type",
}

// Label returns the column header shown to users.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Derived reports whether the field is computed and never edited directly.
func (f Field) Derived() bool {
	return f == FieldPlayerID || f == FieldLastname || f == FieldFirstname
}

// Known reports whether f is one of Fields.
func (f Field) Known() bool {
	_, ok := fieldLabels[f]
	return ok
}

// snakeLabel turns "FIDE Id" into "fide_id".
func (f Field) snakeLabel() string {
	return strings.ReplaceAll(strings.ToLower(f.Label()), " ", "_")
}

// FieldByLabel resolves a column header to a field. Both labels and keys match,
// case-insensitively.
func FieldByLabel(s string) (Field, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	for _, f := range Fields {
		if strings.EqualFold(f.Label(), s) || strings.EqualFold(string(f), s) {
			return f, true
		}
	}
	return "", false
}

// Row is one line of an editable grid: column name to cell text.
type Row map[string]string

// Get returns the value for a field.
func (r Row) Get(f Field) string { return r[string(f)] }

// Set stores the value for a field.
func (r Row) Set(f Field, v string) { r[string(f)] = v }

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// IsBlank reports whether every cell is empty.
func (r Row) IsBlank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Roster is the player grid.
type Roster []Row

// Clone deep-copies the roster.
func (rs Roster) Clone() Roster {
	out := make(Roster, len(rs))
	for i, r := range rs {
		out[i] = r.Clone()
	}
	return out
}

// ByID returns the row with the given PlayerUniqueId.
func (rs Roster) ByID(id string) (Row, bool) {
	for _, r := range rs {
		if r.Get(FieldPlayerID) == id {
			return r, true
		}
	}
	return nil, false
}
