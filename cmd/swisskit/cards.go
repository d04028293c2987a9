package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/swisskit"
	"github.com/javajack/swisskit/card"
)

type cardsOptions struct {
	sheetFlags
	template string
	config   string
	font     string
	out      string
	preview  string
}

func (a *app) cardsCmd() *cobra.Command {
	o := &cardsOptions{}
	cmd := &cobra.Command{
		Use:   "cards <workbook.xlsx>",
		Short: "Print player cards onto a template image",
		Long: `Renders one PNG card per player of the roster and writes them as a zip.
The layout comes from a JSON or YAML card config merged over the defaults.
With --preview the first player's card (or the layout guides for an empty
roster) is written as a JPEG instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cards(cmd, args[0], o)
		},
	}
	o.register(cmd)
	cmd.Flags().StringVar(&o.template, "template", "", "template image (default from config)")
	cmd.Flags().StringVar(&o.config, "card-config", "", "card layout file (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&o.font, "font", "", "TrueType or OpenType font file")
	cmd.Flags().StringVarP(&o.out, "out", "o", card.ZipFileName, "zip file")
	cmd.Flags().StringVar(&o.preview, "preview", "", "write a JPEG preview to this file instead")
	return cmd
}

func (a *app) cardConfig(path string) (card.Config, error) {
	cfg := card.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return card.Merge(data, card.FormatFromName(path), cfg)
}

func (a *app) cards(cmd *cobra.Command, path string, o *cardsOptions) error {
	tmplPath := o.template
	if tmplPath == "" {
		tmplPath = a.cfg.CardTemplate
	}
	if tmplPath == "" {
		return card.ErrNoTemplate
	}
	f, err := os.Open(tmplPath)
	if err != nil {
		return err
	}
	img, err := card.LoadTemplate(f)
	f.Close()
	if err != nil {
		return err
	}

	cfg, err := a.cardConfig(o.config)
	if err != nil {
		return fmt.Errorf("card config: %w", err)
	}
	if o.font != "" {
		cfg.Settings.Font = o.font
	}
	var opts []card.RendererOption
	if cfg.Settings.Font != "" {
		font, err := card.OpenFont(cfg.Settings.Font)
		if err != nil {
			return err
		}
		opts = append(opts, card.WithFont(font))
	}
	rend, err := card.NewRenderer(img, cfg, opts...)
	if err != nil {
		return err
	}

	raw, err := o.roster(path)
	if err != nil {
		return err
	}
	rows, err := swisskit.Normalize(raw)
	if err != nil {
		return err
	}

	if o.preview != "" {
		var row swisskit.Row
		if len(rows) > 0 {
			row = rows[0]
		}
		return writeFile(o.preview, func(w *os.File) error { return rend.Preview(w, row) })
	}
	if len(rows) == 0 {
		return errors.New("roster is empty")
	}
	if err := writeFile(o.out, func(w *os.File) error { return rend.RenderAll(cmd.Context(), w, rows) }); err != nil {
		return err
	}
	a.logger.Info("wrote cards", zap.String("file", o.out), zap.Int("cards", len(rows)))
	return nil
}

// writeFile creates path and hands it to write, removing it on failure.
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
