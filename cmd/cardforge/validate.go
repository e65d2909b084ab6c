package main

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [deck file]",
	Short: "Check a deck file and list its cards",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deck, tpl, err := loadDeck(args[0])
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		missing := 0
		lookup := deck.Lookup()
		for _, c := range deck.Cards {
			line := fmt.Sprintf("  %-12s x%d  %q", c.ID, c.Copies(), c.Value)
			if c.ImageID != "" {
				if _, err := lookup(cmd.Context(), c.ImageID); err != nil {
					missing++
					line += colorize.YellowString("  photo: %v", err)
				}
			}
			fmt.Println(line)
		}

		fmt.Println(colorize.CyanString("Template: ") + colorize.HiWhiteString(tpl.Name))
		fmt.Println(colorize.CyanString("Cards:    ") + colorize.HiWhiteString("%d", len(deck.Cards)))
		if missing > 0 {
			fmt.Println(colorize.YellowString("%d card(s) will render without their photo", missing))
		}
		return nil
	},
}
