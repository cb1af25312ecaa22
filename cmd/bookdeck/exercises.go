package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exercisesOutDir string

var exercisesCmd = &cobra.Command{
	Use:   "exercises",
	Short: "Extract practice exercises and build teacher prompts",
}

var exercisesExtractCmd = &cobra.Command{
	Use:   "extract <book> <start> <end>",
	Short: "Extract exercises from a page range into the database",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parsePageRange(args[1], args[2])
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		exercises, err := a.exerciseService(cmd.Context())
		if err != nil {
			return err
		}

		total, err := exercises.Extract(cmd.Context(), args[0], r)
		if err != nil {
			return err
		}

		fmt.Printf("Stored %d exercises from pages %s of %q\n", total, r, args[0])
		return nil
	},
}

var exercisesPromptsCmd = &cobra.Command{
	Use:   "prompts <book> <start> <end>",
	Short: "Render stored exercises into teacher prompt files",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := parsePageRange(args[1], args[2])
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		builder, err := a.promptBuilder()
		if err != nil {
			return err
		}

		paths, err := builder.BuildPrompts(cmd.Context(), args[0], r, a.outDirOrDefault(exercisesOutDir))
		if err != nil {
			return err
		}

		fmt.Printf("Wrote %d prompt files\n", len(paths))
		for _, path := range paths {
			fmt.Printf("  %s\n", path)
		}
		return nil
	},
}

func init() {
	exercisesPromptsCmd.Flags().StringVar(&exercisesOutDir, "out", "", "output directory (defaults to the configured export directory)")

	exercisesCmd.AddCommand(exercisesExtractCmd, exercisesPromptsCmd)
	rootCmd.AddCommand(exercisesCmd)
}
