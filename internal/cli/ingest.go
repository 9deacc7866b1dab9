package cli

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"enterprise-assistant-be/internal/dto"

	"github.com/spf13/cobra"
)

// pageBreak separates pages in text exported from PDFs.
const pageBreak = "\f"

func newIngestCmd(opts *options) *cobra.Command {
	var sourceID string

	cmd := &cobra.Command{
		Use:   "ingest <file>",
		Short: "Index a plain-text document; form feeds mark page breaks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}

			if sourceID == "" {
				sourceID = filepath.Base(args[0])
			}
			req := dto.IngestDocumentRequest{SourceId: sourceID, Pages: SplitPages(string(raw))}
			if len(req.Pages) == 0 {
				return fmt.Errorf("%s has no text", args[0])
			}

			res, err := call[dto.IngestDocumentResponse](cmd.Context(), opts.client(), http.MethodPost, "/api/documents/v1", req)
			if err != nil {
				return err
			}
			actionColor.Fprintf(cmd.OutOrStdout(), "Queued %s (%d pages)\n", res.SourceId, res.Pages)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceID, "source", "", "source id stored with each chunk (default: file name)")
	return cmd
}

// SplitPages numbers the non-blank pages of text from 1.
func SplitPages(text string) []dto.DocumentPageDTO {
	var pages []dto.DocumentPageDTO
	for i, body := range strings.Split(text, pageBreak) {
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		page := i + 1
		pages = append(pages, dto.DocumentPageDTO{Page: &page, Text: body})
	}
	return pages
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the server and its dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			type status struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			res, err := call[status](cmd.Context(), opts.client(), http.MethodGet, "/api/health", nil)
			if err != nil {
				return err
			}
			for name, state := range res.Checks {
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s\n", name, state)
			}
			actionColor.Fprintln(cmd.OutOrStdout(), res.Status)
			return nil
		},
	}
}
