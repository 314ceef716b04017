package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/adaptest/internal/app"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, _, err := openDeps(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	exportDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	return app.Run(app.Options{
		Config:    d.cfg,
		Backend:   d.client,
		Session:   d.auth,
		Events:    d.store.EventRepo(),
		ExportDir: exportDir,
	})
}
