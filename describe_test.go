package swisskit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	rows, err := Normalize(Roster{
		{"Name": "Novak Jana", "Group": "A", "Federation": "CZE", "TeamUniqueId": "1"},
		{"Name": "Novak Jana", "Group": "B", "Federation": "CZE", "TeamUniqueId": "1"},
		{"Name": "Kral Petr", "Group": "A"},
	})
	require.NoError(t, err)

	assert.Equal(t, `Players: 3
Groups:
  A: 2
  B: 1
Federations:
  (none): 1
  CZE: 2
Teams: 1
Duplicates:
  #1 Novak Jana
  #2 Novak Jana
`, Describe(rows))
}

func TestDescribe_Empty(t *testing.T) {
	assert.Equal(t, "Players: 0\n", Describe(nil))
}
