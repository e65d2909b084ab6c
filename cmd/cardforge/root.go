package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/cardforge/config"
	"github.com/ds124wfegd/cardforge/internal/pkg/deckfile"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

var (
	logLevel     string
	templateName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cardforge",
	Short: "Render playing cards and export them as print archives",
	Long: `cardforge renders cards from structured descriptions onto a fixed card template.
It runs the HTTP API, renders single cards from a deck file and exports whole decks as zip archives.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&templateName, "template", "", "card template, overrides the deck file (classic, poker)")

	rootCmd.AddCommand(serveCmd, renderCmd, exportCmd, validateCmd)
}

// loadDeck reads a deck file and resolves the template to render it with.
func loadDeck(path string) (*deckfile.Deck, render.Template, error) {
	deck, err := deckfile.Load(path)
	if err != nil {
		return nil, render.Template{}, err
	}

	name := templateName
	if name == "" {
		name = deck.Template
	}
	if name == "" {
		return deck, render.DefaultTemplate, nil
	}
	tpl, ok := render.TemplateByName(name)
	if !ok {
		return nil, render.Template{}, fmt.Errorf("unknown template %q", name)
	}
	return deck, tpl, nil
}

// loadServerConfig reads config.yaml from dir, or the default locations when dir is empty.
func loadServerConfig(dir string) (*config.Config, error) {
	var paths []string
	if strings.TrimSpace(dir) != "" {
		paths = append(paths, dir)
	}
	v, err := config.LoadConfig(paths...)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	return config.ParseConfig(v)
}
