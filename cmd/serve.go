package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocabdeck/vocabdeck/internal/handlers"
	"github.com/vocabdeck/vocabdeck/internal/llm"
	"github.com/vocabdeck/vocabdeck/internal/storage"
	"github.com/vocabdeck/vocabdeck/internal/vocab"
)

func newServeCmd() *cobra.Command {
	var port string
	var dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local web service for the browser UI",
		Long: `Starts the Vocabdeck service on the specified port.

The browser UI talks to it to upload a Kindle vocab.db, browse decks,
edit entries, fetch LLM definitions and download Anki exports. The
companion browser extension pushes words to the same service.`,
		Example: `  # Start on the default port 8877
  vocabdeck serve

  # Custom port and data directory
  vocabdeck serve --port 3000 --data-dir ~/.vocabdeck`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(dataDir, 0755); err != nil {
				return err
			}
			kv, err := storage.Open(filepath.Join(dataDir, "vocabdeck.db"))
			if err != nil {
				return err
			}
			defer kv.Close()

			store := vocab.NewStore(kv)
			service := llm.NewService(kv)
			handler := handlers.New(store, service)

			// Set up routes
			mux := http.NewServeMux()
			mux.HandleFunc("/api/import", handler.HandleImport)
			mux.HandleFunc("/api/decks", handler.HandleDecks)
			mux.HandleFunc("/api/decks/", handler.HandleDeckDetail)
			mux.HandleFunc("/api/words", handler.HandleWords)
			mux.HandleFunc("/api/settings/llm", handler.HandleLLMSettings)
			mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
				if _, err := w.Write([]byte("OK")); err != nil {
					slog.Error("Unable to write healthcheck", "err", err)
				}
			})

			addr := ":" + port
			server := &http.Server{
				Addr:    addr,
				Handler: mux,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("Vocabdeck service available", "addr", addr, "url", "http://localhost"+addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-cmd.Context().Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "8877", "Port to listen on")
	cmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir(), "Directory for the vocabulary store")

	return cmd
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".vocabdeck"
	}
	return filepath.Join(home, ".vocabdeck")
}
