package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

type options struct {
	server  string
	token   string
	timeout time.Duration
}

func (o *options) client() *Client {
	return NewClient(o.server, o.token, o.timeout)
}

func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "assistantctl",
		Short: "Talk to the enterprise assistant and inspect its tickets and meetings",
	}
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	defaultServer := os.Getenv("ASSISTANT_URL")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "assistant base URL")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("ASSISTANT_TOKEN"), "bearer token")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 3*time.Minute, "per-request timeout")

	rootCmd.AddCommand(
		newChatCmd(opts),
		newTicketsCmd(opts),
		newMeetingsCmd(opts),
		newIngestCmd(opts),
		newHealthCmd(opts),
	)
	return rootCmd
}
