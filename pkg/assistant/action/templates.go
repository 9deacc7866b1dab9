package action

import (
	"fmt"
	"html"
	"time"
)

func ticketCreatedBody(id, issue, status string, createdAt time.Time) string {
	return fmt.Sprintf(`<h2>IT Support Ticket Created</h2>
<p><strong>Ticket ID:</strong> %s</p>
<p><strong>Issue:</strong> %s</p>
<p><strong>Status:</strong> %s</p>
<p><strong>Created:</strong> %s</p>
<p>Our IT team will investigate and contact you shortly.</p>`,
		html.EscapeString(id), html.EscapeString(issue), html.EscapeString(status), createdAt.Format(time.RFC3339))
}

func meetingRequestBody(id string, in MeetingInput) string {
	requester := html.EscapeString(in.Requester.Name)
	if in.Requester.Email != "" {
		requester = fmt.Sprintf("%s (%s)", requester, html.EscapeString(in.Requester.Email))
	}
	return fmt.Sprintf(`<h2>New Meeting Request</h2>
<p><strong>Meeting ID:</strong> %s</p>
<p><strong>Department:</strong> %s</p>
<p><strong>Requested Date:</strong> %s</p>
<p><strong>Requested Time:</strong> %s</p>
<p><strong>Reason:</strong> %s</p>
<p><strong>Requester:</strong> %s</p>
<p>Please review and confirm availability.</p>`,
		html.EscapeString(id), html.EscapeString(in.Department), html.EscapeString(in.Date),
		html.EscapeString(in.Time), html.EscapeString(in.Reason), requester)
}

func meetingSubmittedBody(id, department string) string {
	return fmt.Sprintf(`<h2>Meeting Request Submitted</h2>
<p><strong>Meeting ID:</strong> %s</p>
<p>Your request has been sent to %s. You'll receive confirmation shortly.</p>`,
		html.EscapeString(id), html.EscapeString(department))
}
