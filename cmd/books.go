package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocabdeck/vocabdeck/internal/kindle"
)

func newBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books <vocab.db>",
		Short: "List the books in a Kindle vocabulary database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			for _, book := range books {
				last := time.UnixMilli(book.LastLookup).Format("2006-01-02")
				fmt.Printf("%s\t%s — %s (%s, %d lookups, last %s)\n",
					book.ID, book.Title, book.Authors, book.Language, book.Count, last)
			}
			return nil
		},
	}
	return cmd
}
