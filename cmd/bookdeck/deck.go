package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	deckInstruction string
	deckCards       int
	deckOutDir      string
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Create flashcard decks",
}

var deckFromBookCmd = &cobra.Command{
	Use:   "from-book <book> <start> <end>",
	Short: "Create a deck from a book page range",
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

		decks, err := a.deckService(cmd.Context())
		if err != nil {
			return err
		}

		d, path, err := decks.CreateFromBook(cmd.Context(), args[0], r,
			deckInstruction, deckCards, a.outDirOrDefault(deckOutDir))
		if err != nil {
			return err
		}

		fmt.Printf("Created deck %q with %d cards: %s\n", d.Name, len(d.Cards), path)
		return nil
	},
}

var deckFromPromptCmd = &cobra.Command{
	Use:   "from-prompt <prompt>",
	Short: "Create a deck from a free-text prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		decks, err := a.deckService(cmd.Context())
		if err != nil {
			return err
		}

		d, path, err := decks.CreateFromPrompt(cmd.Context(), args[0],
			deckCards, a.outDirOrDefault(deckOutDir))
		if err != nil {
			return err
		}

		fmt.Printf("Created deck %q with %d cards: %s\n", d.Name, len(d.Cards), path)
		return nil
	},
}

func init() {
	deckFromBookCmd.Flags().StringVar(&deckInstruction, "instruction", "", "custom instruction narrowing the generation")
	deckFromBookCmd.Flags().IntVar(&deckCards, "cards", 0, "number of cards to generate (0 leaves it to the model)")
	deckFromBookCmd.Flags().StringVar(&deckOutDir, "out", "", "output directory (defaults to the configured export directory)")

	deckFromPromptCmd.Flags().IntVar(&deckCards, "cards", 0, "number of cards to generate (0 leaves it to the model)")
	deckFromPromptCmd.Flags().StringVar(&deckOutDir, "out", "", "output directory (defaults to the configured export directory)")

	deckCmd.AddCommand(deckFromBookCmd, deckFromPromptCmd)
	rootCmd.AddCommand(deckCmd)
}
