package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocabdeck",
		Short: "Turn Kindle vocabulary lookups into flashcard decks",
		Long: `Vocabdeck reads the vocab.db file a Kindle keeps for looked-up words,
organizes the lookups into per-book decks, fills in missing definitions
through an LLM API, and exports Anki-ready flashcards.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBooksCmd())
	cmd.AddCommand(newExportCmd())

	return cmd
}
