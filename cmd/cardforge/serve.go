package main

import (
	"github.com/spf13/cobra"

	"github.com/ds124wfegd/cardforge/internal/appServer"
)

var serveConfigDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServerConfig(serveConfigDir)
		if err != nil {
			return err
		}
		if templateName != "" {
			cfg.Render.Template = templateName
		}
		return appServer.NewServer(cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigDir, "config", "", "directory holding config.yaml")
}
