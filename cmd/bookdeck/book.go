package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bookAddName string

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage registered books",
}

var bookAddCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a PDF textbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		book, err := a.library.Register(cmd.Context(), args[0], bookAddName)
		if err != nil {
			return err
		}

		fmt.Printf("Registered %q (%d pages, id %s)\n", book.Name, book.PageCount, book.ID)
		return nil
	},
}

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered books",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		books, err := a.library.List(cmd.Context())
		if err != nil {
			return err
		}

		if len(books) == 0 {
			fmt.Println("No books registered.")
			return nil
		}
		for _, book := range books {
			fmt.Printf("%s\t%d pages\t%s\n", book.Name, book.PageCount, book.SourcePath)
		}
		return nil
	},
}

var bookDescribeCmd = &cobra.Command{
	Use:   "describe <name>",
	Short: "Show a book's metadata and extracted ranges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		detail, err := a.library.Describe(cmd.Context(), args[0], a.cfg.Extractor.Version)
		if err != nil {
			return err
		}

		book := detail.Book
		fmt.Printf("Name:       %s\n", book.Name)
		fmt.Printf("ID:         %s\n", book.ID)
		fmt.Printf("Source:     %s\n", book.SourcePath)
		fmt.Printf("Pages:      %d\n", book.PageCount)
		fmt.Printf("Registered: %s\n", book.CreatedAt.Format("2006-01-02 15:04"))

		if len(detail.Extracted) == 0 {
			fmt.Println("Extracted:  none")
			return nil
		}
		fmt.Println("Extracted:")
		for _, content := range detail.Extracted {
			fmt.Printf("  pages %s (%d chars)\n", content.Key.Range, len(content.Text))
		}
		return nil
	},
}

var bookRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a book and everything derived from it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.library.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Removed %q\n", args[0])
		return nil
	},
}

var bookClearCmd = &cobra.Command{
	Use:   "clear <name>",
	Short: "Drop a book's cached extraction results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.library.ClearContent(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Printf("Cleared extracted content for %q\n", args[0])
		return nil
	},
}

func init() {
	bookAddCmd.Flags().StringVar(&bookAddName, "name", "", "name to register the book under (defaults to the file name)")

	bookCmd.AddCommand(bookAddCmd, bookListCmd, bookDescribeCmd, bookRemoveCmd, bookClearCmd)
	rootCmd.AddCommand(bookCmd)
}
