package main

import (
	"archive/zip"
	"bytes"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// run executes the root command in a fresh working directory.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	chdir(t, dir)
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.Execute()
	return out.String(), err
}

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func rosterWorkbook(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "roster.xlsx")
	writeWorkbook(t, path, [][]any{
		{"Name", "Gender", "Federation", "Club", "Rating"},
		{"Novak Jana", "f", "CZE", "TJ Praha", 2100},
		{"Kral Petr", "", "SVK", "ŠK Bratislava", 1950},
	})
	return path
}

func TestPlayersCommand(t *testing.T) {
	dir := t.TempDir()
	rosterWorkbook(t, dir)

	out, err := run(t, dir, "players", "roster.xlsx", "--fill-group", "--teams-out", "teams.xml", "--xlsx", "players.xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, "Players: 2")

	players, err := os.ReadFile(filepath.Join(dir, "output.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(players), `Lastname="Novak"`)
	assert.Contains(t, string(players), `Group="f"`)
	assert.Contains(t, string(players), `TeamUniqueId="2"`)

	teams, err := os.ReadFile(filepath.Join(dir, "teams.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(teams), `TeamLongname="ŠK Bratislava"`)

	_, err = os.Stat(filepath.Join(dir, "players.xlsx"))
	assert.NoError(t, err)
}

func TestPlayersCommand_GroupAndMapping(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roster.xlsx")
	writeWorkbook(t, path, [][]any{
		{"Player", "Fed"},
		{"Novak Jana", "CZE"},
		{"Kral Petr", "SVK"},
		{"", "", "=${Federation}"},
	})

	_, err := run(t, dir, "players", "roster.xlsx", "--map", "Player=Name,Fed=Federation,Column 3=Group", "--group", "SVK", "-o", "svk.xml")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "svk.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `Lastname="Kral"`)
	assert.NotContains(t, string(data), `Lastname="Novak"`)
}

func TestDescribeCommand(t *testing.T) {
	dir := t.TempDir()
	rosterWorkbook(t, dir)

	out, err := run(t, dir, "describe", "roster.xlsx")
	require.NoError(t, err)
	assert.Contains(t, out, `Sheet "Sheet1": 2 rows`)
	assert.Contains(t, out, "Federation -> Federation")
	assert.Contains(t, out, "CZE: 1")
}

func TestSummarizeCommand(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "standings.xlsx"), [][]any{
		{"Rk.", "SNo", "Name", "Club/City", "Pts."},
		{1, 3, "A", "X", "5"},
		{2, 1, "B", "Y", "4½"},
		{3, 2, "C", "X", "4"},
		{"", 4, "D", "Y", "4"},
	})

	out, err := run(t, dir, "summarize", "standings.xlsx", "--top", "2", "-o", "summary.xlsx")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "X")
	assert.Contains(t, lines[2], "8.5")

	f, err := excelize.OpenFile(filepath.Join(dir, "summary.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestQRCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "qr", "https://example.org", "--data-uri")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "data:image/png;base64,"))

	_, err = run(t, dir, "qr", "hello", "--box-size", "4")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "qr.png"))
	assert.NoError(t, err)

	_, err = run(t, dir, "qr", "hello", "--version", "41")
	assert.Error(t, err)
}

func TestCardsCommand(t *testing.T) {
	dir := t.TempDir()
	rosterWorkbook(t, dir)
	require.NoError(t, imaging.Save(imaging.New(600, 300, color.White), filepath.Join(dir, "card.png")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "card.yaml"), []byte("name:\n  maxFontSize: 30\n"), 0o644))

	_, err := run(t, dir, "cards", "roster.xlsx")
	require.Error(t, err, "no template configured")

	_, err = run(t, dir, "cards", "roster.xlsx", "--template", "card.png", "--card-config", "card.yaml")
	require.NoError(t, err)
	zr, err := zip.OpenReader(filepath.Join(dir, "player_cards.zip"))
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 2)
	assert.Equal(t, "player_card_#1.png", zr.File[0].Name)

	_, err = run(t, dir, "cards", "roster.xlsx", "--template", "card.png", "--preview", "preview.jpg")
	require.NoError(t, err)
	f, err := os.Open(filepath.Join(dir, "preview.jpg"))
	require.NoError(t, err)
	defer f.Close()
	_, err = jpeg.Decode(f)
	assert.NoError(t, err)
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
