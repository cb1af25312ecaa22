package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phrazzld/bookdeck/internal/extraction/dockerext"
)

var extractorCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Manage the local extraction service container",
}

var extractorUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Start the extraction service container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		manager, err := dockerext.NewManager(a.cfg.Extractor, a.logger)
		if err != nil {
			return err
		}

		if err := manager.Up(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Extraction service available at %s\n", a.cfg.Extractor.BaseURL)
		return nil
	},
}

var extractorDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and remove the extraction service container",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		manager, err := dockerext.NewManager(a.cfg.Extractor, a.logger)
		if err != nil {
			return err
		}

		if err := manager.Down(cmd.Context()); err != nil {
			return err
		}

		fmt.Println("Extraction service stopped")
		return nil
	},
}

func init() {
	extractorCmd.AddCommand(extractorUpCmd, extractorDownCmd)
	rootCmd.AddCommand(extractorCmd)
}
