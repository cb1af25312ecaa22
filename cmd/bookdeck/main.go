// Command bookdeck converts scanned textbook pages into flashcard decks and
// practice exercises by chaining an external OCR service with an LLM
// generation stage.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
