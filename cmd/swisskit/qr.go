package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/javajack/swisskit/qr"
)

func (a *app) qrCmd() *cobra.Command {
	var (
		opts    qr.Options
		out     string
		dataURI bool
	)
	cmd := &cobra.Command{
		Use:   "qr <text>",
		Short: "Generate a QR code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataURI {
				uri, err := qr.DataURI(args[0], opts)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), uri)
				return err
			}
			return writeFile(out, func(w *os.File) error { return qr.PNG(w, args[0], opts) })
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.Version, "version", 0, fmt.Sprintf("QR version 1-%d, 0 picks the smallest that fits", qr.MaxVersion))
	f.IntVar(&opts.BoxSize, "box-size", qr.DefaultBoxSize, "module size in pixels")
	f.IntVar(&opts.Border, "border", 0, "quiet zone in modules")
	f.StringVar(&opts.Fill, "fill", "black", "module color")
	f.StringVar(&opts.Back, "back", "white", "background color")
	f.BoolVar(&opts.FillTransparent, "fill-transparent", false, "transparent modules")
	f.BoolVar(&opts.BackTransparent, "back-transparent", false, "transparent background")
	f.StringVarP(&out, "out", "o", "qr.png", "PNG file")
	f.BoolVar(&dataURI, "data-uri", false, "print a data: URI instead of writing a file")
	return cmd
}
