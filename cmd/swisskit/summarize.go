package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/swisskit"
)

type summarizeOptions struct {
	sheet string
	sort  string
	top   int
	out   string
}

func (a *app) summarizeCmd() *cobra.Command {
	o := &summarizeOptions{}
	cmd := &cobra.Command{
		Use:   "summarize <standings.xlsx>",
		Short: "Rank teams from final individual standings",
		Long: `Reads a standings sheet (Rank, No, Name, Team, Score, TB1..TB5; Swiss-Manager
headers such as Rk., SNo and Pts. are understood), counts the best players of
each team and prints the team ranking. With --out the summary is also written
as a workbook with a chart.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.summarize(cmd.OutOrStdout(), args[0], o)
		},
	}
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "sheet to read (default: the first)")
	cmd.Flags().StringVar(&o.sort, "sort", string(swisskit.SortByRank), "rank teams by rank or score")
	cmd.Flags().IntVar(&o.top, "top", 0, "players counted per team (default from config)")
	cmd.Flags().StringVarP(&o.out, "out", "o", "", "write the summary workbook to this file")
	return cmd
}

func (a *app) summarize(stdout io.Writer, path string, o *summarizeOptions) error {
	wb, err := openWorkbook(path)
	if err != nil {
		return err
	}
	sheet, err := wb.Sheet(o.sheet)
	if err != nil {
		return err
	}
	top := o.top
	if top < 1 {
		top = a.cfg.SummaryTop
	}
	by := swisskit.ParseSortBy(o.sort)

	teams, err := swisskit.Summarize(sheet.ToResults(), swisskit.WithSortBy(by), swisskit.WithTop(top))
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Place\tTeam\tPlayers\tRank\tScore")
	for _, t := range teams {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\n", t.Place, t.Team, len(t.Players),
			swisskit.FormatNumber(t.Rank), swisskit.FormatNumber(t.Score))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if o.out == "" {
		return nil
	}
	f, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if err := swisskit.WriteSummaryXLSX(f, teams, by); err != nil {
		f.Close()
		return err
	}
	a.logger.Info("wrote summary", zap.String("file", o.out), zap.Int("teams", len(teams)))
	return f.Close()
}
