package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vocabdeck/vocabdeck/internal/anki"
	"github.com/vocabdeck/vocabdeck/internal/kindle"
	"github.com/vocabdeck/vocabdeck/internal/languages"
	"github.com/vocabdeck/vocabdeck/internal/llm"
	"github.com/vocabdeck/vocabdeck/internal/models"
)

func newExportCmd() *cobra.Command {
	var bookID string
	var format string
	var output string
	var enrich bool
	var apiKey string
	var apiURL string

	cmd := &cobra.Command{
		Use:   "export <vocab.db>",
		Short: "Export one book's vocabulary as Anki TSV",
		Long: `Reads a Kindle vocabulary database, optionally fetches missing
definitions through the configured LLM API, and writes a tab-separated
flashcard file for one book.`,
		Example: `  # Cloze cards for a book, straight from the device file
  vocabdeck export vocab.db --book B00ABCDEF1 --format cloze -o deck.tsv

  # With definitions filled in first
  vocabdeck export vocab.db --book B00ABCDEF1 --enrich \
    --api-url https://api.openai.com/v1/chat/completions --api-key $KEY`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := anki.ParseFormat(format)
			if err != nil {
				return err
			}

			reader, err := kindle.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			books, err := reader.Books()
			if errors.Is(err, kindle.ErrNotVocabDB) {
				return fmt.Errorf("%s: not a valid vocabulary database", args[0])
			}
			if err != nil {
				return err
			}

			var book *models.Book
			for i := range books {
				if books[i].ID == bookID {
					book = &books[i]
					break
				}
			}
			if book == nil {
				return fmt.Errorf("book %q not found; run `vocabdeck books %s` to list ids", bookID, args[0])
			}

			vocabs, err := reader.Vocabs(book.ID)
			if err != nil {
				return err
			}

			if enrich {
				if apiKey == "" {
					apiKey = os.Getenv("LLM_API_KEY")
				}
				if apiURL == "" {
					apiURL = os.Getenv("LLM_API_URL")
				}
				service := llm.NewService(nil)
				if err := service.SaveSettings(llm.Settings{APIKey: apiKey, APIURL: apiURL}); err != nil {
					return err
				}
				items := make([]*models.VocabItem, len(vocabs))
				for i := range vocabs {
					items[i] = &vocabs[i]
				}
				opts := llm.PromptOptions{SourceLang: languages.Name(book.Language)}
				if err := service.FetchDefinitions(cmd.Context(), items, opts); err != nil {
					return err
				}
			}

			tsv := anki.ExportCSV(vocabs, exportFormat)
			if output == "" {
				fmt.Println(tsv)
				return nil
			}
			return os.WriteFile(output, []byte(tsv+"\n"), 0644)
		},
	}

	cmd.Flags().StringVar(&bookID, "book", "", "Book id to export (required)")
	cmd.Flags().StringVar(&format, "format", string(anki.FormatBasic), "Export format: plain, basic or cloze")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&enrich, "enrich", false, "Fetch missing definitions before exporting")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "LLM API key (or LLM_API_KEY)")
	cmd.Flags().StringVar(&apiURL, "api-url", "", "LLM API URL (or LLM_API_URL)")
	_ = cmd.MarkFlagRequired("book")

	return cmd
}
