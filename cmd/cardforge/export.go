package main

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/cardforge/internal/pkg/export"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

var (
	exportDeck     string
	exportOut      string
	exportSidecars bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every card of a deck file into a zip archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, tpl, err := loadDeck(exportDeck)
		if err != nil {
			return err
		}

		bar := newProgressBar(os.Stderr)
		exporter := export.New(export.Options{
			Renderer: render.NewRenderer(tpl),
			Lookup:   deck.Lookup(),
			Sidecars: exportSidecars,
			Log:      logrus.WithField("deck", exportDeck),
		})
		data, report, err := exporter.ExportAll(cmd.Context(), deck.Cards, bar.Update)
		bar.Done()
		if err != nil {
			return err
		}

		if err := os.WriteFile(exportOut, data, 0644); err != nil {
			return err
		}
		printReport(report, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDeck, "deck", "", "deck file (.toml, .yaml)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "cards.zip", "output archive")
	exportCmd.Flags().BoolVar(&exportSidecars, "sidecars", false, "add a json description next to every card")
	exportCmd.MarkFlagRequired("deck")
}

func printReport(report *export.Report, out string) {
	fmt.Println(colorize.CyanString("Archive:  ") + colorize.HiWhiteString(out))
	fmt.Println(colorize.CyanString("Entries:  ") + colorize.HiWhiteString("%d", len(report.Entries)))
	fmt.Println(colorize.CyanString("Rendered: ") + colorize.HiWhiteString("%d", report.Rendered))

	for _, w := range report.Warnings {
		fmt.Println(colorize.YellowString("warning: ") + fmt.Sprintf("card %d (%s): %s", w.Index, w.CardID, w.Reason))
	}
	for _, o := range report.Omitted {
		fmt.Println(colorize.RedString("omitted: ") + fmt.Sprintf("card %d (%s): %s", o.Index, o.CardID, o.Reason))
	}
}
