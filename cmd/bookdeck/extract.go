package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/phrazzld/bookdeck/internal/domain"
)

// parsePageRange turns two positional arguments into a validated PageRange.
func parsePageRange(startArg, endArg string) (domain.PageRange, error) {
	start, err := strconv.Atoi(startArg)
	if err != nil {
		return domain.PageRange{}, fmt.Errorf("invalid start page %q", startArg)
	}
	end, err := strconv.Atoi(endArg)
	if err != nil {
		return domain.PageRange{}, fmt.Errorf("invalid end page %q", endArg)
	}
	return domain.NewPageRange(start, end)
}

var extractCmd = &cobra.Command{
	Use:   "extract <book> <start> <end>",
	Short: "Extract a page range into the content store",
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

		book, err := a.library.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		content, err := a.extractor.Extract(cmd.Context(), book, r)
		if err != nil {
			return err
		}

		fmt.Printf("Extracted pages %s of %q (%d chars)\n", r, book.Name, len(content.Text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
