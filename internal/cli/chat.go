package cli

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"strings"

	"enterprise-assistant-be/internal/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	promptColor  = color.New(color.FgCyan, color.Bold)
	confirmColor = color.New(color.FgYellow)
	actionColor  = color.New(color.FgGreen)
	refusalColor = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func newChatCmd(opts *options) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant; without a message starts an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := opts.client()
			out := cmd.OutOrStdout()

			if len(args) > 0 {
				_, err := sendTurn(cmd, client, sessionID, strings.Join(args, " "), out)
				return err
			}

			fmt.Fprintln(out, dimColor.Sprint("Type a message, or /exit to quit."))
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				promptColor.Fprint(out, "you> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				if text == "/exit" || text == "/quit" {
					return nil
				}

				next, err := sendTurn(cmd, client, sessionID, text, out)
				if err != nil {
					refusalColor.Fprintf(out, "error: %v\n", err)
					continue
				}
				sessionID = next
			}
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "continue an existing session")
	return cmd
}

func sendTurn(cmd *cobra.Command, client *Client, sessionID, text string, out io.Writer) (string, error) {
	res, err := call[dto.InvokeResponse](cmd.Context(), client, http.MethodPost, "/api/assistant/v1/invoke", dto.InvokeRequest{
		SessionId: sessionID,
		Message:   &text,
	})
	if err != nil {
		return sessionID, err
	}

	printReply(out, &res)
	return res.SessionId, nil
}

func printReply(out io.Writer, res *dto.InvokeResponse) {
	c := color.New(color.Reset)
	switch res.Kind {
	case "confirm_prompt", "reprompt":
		c = confirmColor
	case "action":
		c = actionColor
	case "refusal":
		c = refusalColor
	}
	c.Fprintf(out, "assistant> %s\n", res.Output)
	for _, p := range res.Sources {
		dimColor.Fprintf(out, "  [Page %s] %s\n", p.PageLabel(), p.SourceID)
	}
}
