package main

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

var (
	renderDeck string
	renderCard string
	renderOut  string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render one card of a deck file to a PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, tpl, err := loadDeck(renderDeck)
		if err != nil {
			return err
		}
		card, err := deck.Card(renderCard)
		if err != nil {
			return err
		}

		log := logrus.WithField("card_id", card.ID)
		// a photo that cannot be loaded is left out, the rest of the card still renders
		photo, _ := processor.ResolvePhoto(cmd.Context(), deck.Lookup(), card, log)
		img := render.NewRenderer(tpl).RenderImage(card, photo)

		out := renderOut
		if out == "" {
			out = card.ID + ".png"
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := processor.EncodePNG(f, img); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Println(colorize.CyanString("Rendered: ") + colorize.HiWhiteString("%s -> %s", card.ID, out))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&renderDeck, "deck", "", "deck file (.toml, .yaml)")
	renderCmd.Flags().StringVar(&renderCard, "card", "", "id of the card to render")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file, defaults to <card>.png")
	renderCmd.MarkFlagRequired("deck")
	renderCmd.MarkFlagRequired("card")
}
