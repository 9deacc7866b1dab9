package cli

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"text/tabwriter"

	"enterprise-assistant-be/internal/dto"

	"github.com/spf13/cobra"
)

type listFlags struct {
	status    string
	requester string
	limit     int
}

func (f listFlags) query() string {
	v := url.Values{}
	if f.status != "" {
		v.Set("status", f.status)
	}
	if f.requester != "" {
		v.Set("requester_id", f.requester)
	}
	if f.limit > 0 {
		v.Set("limit", strconv.Itoa(f.limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (f *listFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.status, "status", "", "filter by status")
	cmd.Flags().StringVar(&f.requester, "requester", "", "filter by requester id")
	cmd.Flags().IntVar(&f.limit, "limit", 20, "maximum rows")
}

func newTicketsCmd(opts *options) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "tickets",
		Short: "List IT tickets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tickets, err := call[[]dto.TicketResponse](cmd.Context(), opts.client(), http.MethodGet, "/api/tickets/v1"+flags.query(), nil)
			if err != nil {
				return err
			}
			printTickets(cmd.OutOrStdout(), tickets)
			return nil
		},
	}
	flags.bind(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <ticket-id> <status>",
		Short: "Set a ticket status (OPEN, IN_PROGRESS, RESOLVED, CLOSED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := call[dto.TicketResponse](cmd.Context(), opts.client(), http.MethodPatch,
				"/api/tickets/v1/"+url.PathEscape(args[0])+"/status", dto.UpdateTicketStatusRequest{Status: args[1]})
			if err != nil {
				return err
			}
			actionColor.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", t.Id, t.Status)
			return nil
		},
	})
	return cmd
}

func newMeetingsCmd(opts *options) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "meetings",
		Short: "List HR meeting requests, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			meetings, err := call[[]dto.MeetingResponse](cmd.Context(), opts.client(), http.MethodGet, "/api/meetings/v1"+flags.query(), nil)
			if err != nil {
				return err
			}
			printMeetings(cmd.OutOrStdout(), meetings)
			return nil
		},
	}
	flags.bind(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "status <meeting-id> <status>",
		Short: "Set a meeting status (PENDING, SCHEDULED, COMPLETED, CANCELLED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := call[dto.MeetingResponse](cmd.Context(), opts.client(), http.MethodPatch,
				"/api/meetings/v1/"+url.PathEscape(args[0])+"/status", dto.UpdateMeetingStatusRequest{Status: args[1]})
			if err != nil {
				return err
			}
			actionColor.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", m.Id, m.Status)
			return nil
		},
	})
	return cmd
}

func printTickets(out io.Writer, tickets []dto.TicketResponse) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tREQUESTER\tCREATED\tISSUE")
	for _, t := range tickets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.Id, t.Status, t.Priority, t.RequesterName,
			t.CreatedAt.Format("2006-01-02 15:04"), truncate(t.Issue, 60))
	}
	w.Flush()
}

func printMeetings(out io.Writer, meetings []dto.MeetingResponse) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDEPARTMENT\tREQUESTER\tCREATED\tREASON")
	for _, m := range meetings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", m.Id, m.Status, m.Department, m.RequesterName,
			m.CreatedAt.Format("2006-01-02 15:04"), truncate(m.Reason, 60))
	}
	w.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
