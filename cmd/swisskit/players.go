package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/swisskit"
)

// sheetFlags select a sheet of a workbook and map its columns onto fields.
type sheetFlags struct {
	sheet   string
	mapping map[string]string
}

func (s *sheetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.sheet, "sheet", "", "sheet to read (default: the first)")
	cmd.Flags().StringToStringVar(&s.mapping, "map", nil, "column mapping as Header=Field, suggested from the headers when absent")
}

func openWorkbook(path string) (*swisskit.Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return swisskit.ReadWorkbook(f)
}

// roster reads the raw grid of a workbook, formula row included.
func (s *sheetFlags) roster(path string) (swisskit.Roster, error) {
	wb, err := openWorkbook(path)
	if err != nil {
		return nil, err
	}
	sheet, err := wb.Sheet(s.sheet)
	if err != nil {
		return nil, err
	}
	m := swisskit.Mapping(s.mapping)
	if len(m) == 0 {
		m = swisskit.SuggestMapping(sheet.Headers)
	}
	return sheet.ToRoster(m)
}

type playersOptions struct {
	sheetFlags
	out       string
	group     string
	fillGroup bool
	teamsOut  string
	xlsxOut   string
}

func (a *app) playersCmd() *cobra.Command {
	o := &playersOptions{}
	cmd := &cobra.Command{
		Use:   "players <workbook.xlsx>",
		Short: "Convert a roster workbook to Swiss-Manager players XML",
		Long: `Reads a roster sheet, splits names, assigns ids, applies a trailing
formula row (cells like =${Federation.lower()}) and writes the players XML.

With --teams-out a team table is generated from the federations and clubs,
team ids are filled into the roster and the teams XML is written too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.players(cmd.OutOrStdout(), args[0], o)
		},
	}
	o.register(cmd)
	cmd.Flags().StringVarP(&o.out, "out", "o", swisskit.PlayersFileName, "players XML file")
	cmd.Flags().StringVar(&o.group, "group", "", "export only this group")
	cmd.Flags().BoolVar(&o.fillGroup, "fill-group", false, "derive the group from the gender column")
	cmd.Flags().StringVar(&o.teamsOut, "teams-out", "", "also write the teams XML to this file")
	cmd.Flags().StringVar(&o.xlsxOut, "xlsx", "", "also write the normalized roster as a workbook")
	return cmd
}

func (a *app) players(stdout io.Writer, path string, o *playersOptions) error {
	raw, err := o.roster(path)
	if err != nil {
		return err
	}
	issues := swisskit.Validate(raw)
	for _, is := range issues {
		a.logger.Warn("roster issue", zap.Stringer("issue", is))
	}
	rows, err := swisskit.Normalize(raw)
	if err != nil {
		return err
	}
	if o.fillGroup {
		rows = swisskit.FillGroup(rows)
	}

	if o.teamsOut != "" {
		teams := swisskit.TeamsFromRoster(rows)
		rows = swisskit.FillTeam(rows, teams)
		data, err := swisskit.TeamsXML(teams)
		if err != nil {
			return err
		}
		if err := os.WriteFile(o.teamsOut, data, 0o644); err != nil {
			return err
		}
		a.logger.Info("wrote teams", zap.String("file", o.teamsOut), zap.Int("teams", len(teams)))
	}

	data, err := swisskit.PlayersXML(rows, swisskit.WithGroup(o.group))
	if err != nil {
		return err
	}
	if err := os.WriteFile(o.out, data, 0o644); err != nil {
		return err
	}
	a.logger.Info("wrote players", zap.String("file", o.out), zap.Int("players", len(rows)))

	if o.xlsxOut != "" {
		f, err := os.Create(o.xlsxOut)
		if err != nil {
			return err
		}
		if err := swisskit.WriteRosterXLSX(f, rows); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}

	_, err = fmt.Fprint(stdout, swisskit.Describe(rows))
	return err
}

func (a *app) describeCmd() *cobra.Command {
	s := &sheetFlags{}
	cmd := &cobra.Command{
		Use:   "describe <workbook.xlsx>",
		Short: "Show the sheets of a workbook and check its roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.describe(cmd.OutOrStdout(), args[0], s)
		},
	}
	s.register(cmd)
	return cmd
}

func (a *app) describe(stdout io.Writer, path string, s *sheetFlags) error {
	wb, err := openWorkbook(path)
	if err != nil {
		return err
	}
	for _, sh := range wb.Sheets {
		fmt.Fprintf(stdout, "Sheet %q: %d rows\n", sh.Name, len(sh.Rows))
		for _, h := range sh.Headers {
			if f, ok := swisskit.SuggestMapping(sh.Headers)[h]; ok {
				fmt.Fprintf(stdout, "  %s -> %s\n", h, f)
				continue
			}
			fmt.Fprintf(stdout, "  %s\n", h)
		}
	}

	raw, err := s.roster(path)
	if err != nil {
		return err
	}
	rows, err := swisskit.Normalize(raw)
	if err != nil {
		a.logger.Debug("normalize", zap.Error(err))
	}
	fmt.Fprint(stdout, swisskit.Describe(rows))

	issues := swisskit.Validate(raw)
	for _, is := range issues {
		fmt.Fprintln(stdout, is)
	}
	for _, is := range issues {
		if is.Severity == swisskit.SeverityError {
			return fmt.Errorf("roster has errors")
		}
	}
	return nil
}
