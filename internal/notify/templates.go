package notify

import (
	"fmt"
	"strings"

	"github.com/crewsight/crewsight-platform/internal/leadstore"
)

// BuildAdminAlert formats the sales-team notification for a scored lead.
// The CC policy (keep the shared sales inbox on every admin alert) is applied
// by the dispatcher, not here.
func BuildAdminAlert(rec *leadstore.Record) EmailMessage {
	score := rec.Score
	input := rec.Input

	subject := fmt.Sprintf("%s: %s (%s) — score %d",
		score.Priority.SubjectPrefix(), input.CompanyName, input.ContactName, score.Score)

	reasonLines := "  (no scoring signals)"
	if len(score.Reasons) > 0 {
		reasonLines = "  - " + strings.Join(score.Reasons, "\n  - ")
	}

	body := fmt.Sprintf(`New lead from the website (%s).

Company: %s
Contact: %s <%s>
Phone: %s
Team size: %s
Industry: %s
Urgency: %s

Score: %d (%s)
%s

Recommended action: %s

Lead ID: %s
— CrewSight`,
		input.SourceChannel, input.CompanyName, input.ContactName, input.ContactEmail,
		orDash(input.ContactPhone), orDash(input.TeamSizeBucket), orDash(input.Industry),
		input.Urgency, score.Score, score.Priority, reasonLines,
		score.Priority.RecommendedAction(), rec.ID)

	var reasonItems strings.Builder
	for _, r := range score.Reasons {
		fmt.Fprintf(&reasonItems, "<li>%s</li>", htmlEscape(r))
	}

	html := fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2>%s</h2>
<table style="border-collapse: collapse; margin: 20px 0;">
  %s%s%s%s%s%s
</table>
<p><strong>Score:</strong> %d (%s)</p>
<ul>%s</ul>
<p style="background: #fef3c7; padding: 12px; border-radius: 8px; border-left: 4px solid #f59e0b;">
  <strong>%s</strong>
</p>
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">Lead ID: %s — CrewSight</p>
</div>`,
		htmlEscape(score.Priority.SubjectPrefix()),
		htmlRow("Company", input.CompanyName),
		htmlRow("Contact", fmt.Sprintf("%s <%s>", input.ContactName, input.ContactEmail)),
		htmlRow("Phone", input.ContactPhone),
		htmlRow("Team size", input.TeamSizeBucket),
		htmlRow("Industry", input.Industry),
		htmlRow("Urgency", string(input.Urgency)),
		score.Score, score.Priority, reasonItems.String(),
		htmlEscape(score.Priority.RecommendedAction()), rec.ID)

	return EmailMessage{Subject: subject, Body: body, HTML: html}
}

// BuildUserConfirmation formats the thank-you email sent back to the lead.
func BuildUserConfirmation(rec *leadstore.Record) EmailMessage {
	input := rec.Input
	firstName := input.ContactName
	if i := strings.IndexByte(firstName, ' '); i > 0 {
		firstName = firstName[:i]
	}

	body := fmt.Sprintf(`Hi %s,

Thanks for reaching out to CrewSight. We received your request and a member of
our team will be in touch shortly.

In the meantime, feel free to reply to this email with anything that would
help us prepare — current tools, crew size, or the projects you manage.

— The CrewSight Team`, firstName)

	return EmailMessage{
		To:      input.ContactEmail,
		ToName:  input.ContactName,
		Subject: "We received your request — CrewSight",
		Body:    body,
	}
}

// BuildSMSAlert formats the short sales alert.
func BuildSMSAlert(rec *leadstore.Record) string {
	input := rec.Input
	return fmt.Sprintf("%s %s (%s), score %d. %s. %s",
		rec.Score.Priority.SubjectPrefix(), input.CompanyName, input.ContactName,
		rec.Score.Score, input.Urgency, rec.Score.Priority.RecommendedAction())
}

// SheetRow flattens a record into the spreadsheet column layout
// (timestamp, company, contact, email, phone, team, industry, urgency,
// score, priority, hot, status).
func SheetRow(rec *leadstore.Record) []interface{} {
	return []interface{}{
		rec.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		rec.Input.CompanyName,
		rec.Input.ContactName,
		rec.Input.ContactEmail,
		rec.Input.ContactPhone,
		rec.Input.TeamSizeBucket,
		rec.Input.Industry,
		string(rec.Input.Urgency),
		rec.Score.Score,
		string(rec.Score.Priority),
		rec.Score.IsHotLead,
		string(rec.Status),
	}
}

func htmlRow(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>`,
		htmlEscape(label), htmlEscape(value))
}

func htmlEscape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
