// Package domain defines the core entities of the textbook-to-flashcard
// pipeline: registered books, page ranges, extracted page content,
// flashcards, assembled decks with provenance, and extracted exercises.
//
// Entities validate themselves at construction time and are immutable
// afterwards except where explicitly noted (book metadata refresh).
// The package has no dependencies on storage or external services.
package domain
