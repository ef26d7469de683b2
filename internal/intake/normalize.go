// Package intake accepts raw marketing-site submissions, normalizes them into
// the canonical lead shape, and drives the score -> persist -> notify
// pipeline behind the HTTP surface.
package intake

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crewsight/crewsight-platform/internal/leadscore"
)

// Source channels. The caller-supplied discriminator is authoritative;
// structural sniffing below is a compatibility shim for older site builds
// that did not send one.
const (
	SourceContactForm = "contact_form"
	SourceDemoRequest = "demo_request"
	SourceCRMChatbot  = "crm_chatbot"
)

// Per-field sanitization caps. Free text is trimmed and truncated to bound
// storage; conversation context keeps only the most recent turns.
const (
	maxNameLen         = 100
	maxEmailLen        = 255
	maxCompanyLen      = 100
	maxIndustryLen     = 50
	maxInterestsLen    = 500
	maxMessageLen      = 1000
	maxContextEntryLen = 500
	maxContextEntries  = 10
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError carries field-level messages for a rejected submission.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("intake: validation failed: %s", strings.Join(e.Fields, "; "))
}

// RawSubmission is the untyped wire payload. Field aliases cover the three
// known site forms, which never agreed on naming.
type RawSubmission struct {
	SourceChannel string `json:"sourceChannel,omitempty"`

	Name        string `json:"name,omitempty"`
	ContactName string `json:"contactName,omitempty"`
	Email       string `json:"email,omitempty"`
	Company     string `json:"company,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Phone       string `json:"phone,omitempty"`

	TeamSize          string   `json:"teamSize,omitempty"`
	IndustryType      string   `json:"industryType,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	SpecificInterests []string `json:"specificInterests,omitempty"`
	Interests         []string `json:"interests,omitempty"`

	Timeline string `json:"timeline,omitempty"`
	Urgency  string `json:"urgency,omitempty"`
	Message  string `json:"message,omitempty"`
	Notes    string `json:"notes,omitempty"`

	ConversationContext []string `json:"conversationContext,omitempty"`
	SessionID           string   `json:"sessionId,omitempty"`
}

// DetectSource returns the submission's source channel, preferring the
// explicit discriminator and falling back to structural sniffing: phone
// without team-size/industry means contact form, team-size/industry/interest
// fields mean demo request.
func DetectSource(raw *RawSubmission) string {
	switch raw.SourceChannel {
	case SourceContactForm, SourceDemoRequest, SourceCRMChatbot:
		return raw.SourceChannel
	}
	if raw.Phone != "" && raw.TeamSize == "" && raw.IndustryType == "" && raw.Industry == "" {
		return SourceContactForm
	}
	if raw.TeamSize != "" || raw.IndustryType != "" || len(raw.SpecificInterests) > 0 {
		return SourceDemoRequest
	}
	return SourceContactForm
}

// Normalize converts a raw submission into a validated LeadInput, or returns
// a *ValidationError listing every failed field. It never returns a partially
// constructed input.
func Normalize(raw *RawSubmission, sourceChannel string) (leadscore.LeadInput, error) {
	name := truncate(firstNonEmpty(raw.ContactName, raw.Name), maxNameLen)
	email := strings.ToLower(truncate(raw.Email, maxEmailLen))
	company := truncate(firstNonEmpty(raw.CompanyName, raw.Company), maxCompanyLen)
	phone := strings.TrimSpace(raw.Phone)

	var fields []string
	if name == "" {
		fields = append(fields, "contactName is required")
	}
	if email == "" {
		fields = append(fields, "contactEmail is required")
	} else if !emailPattern.MatchString(email) {
		fields = append(fields, "contactEmail must be a valid email address")
	}
	if company == "" {
		fields = append(fields, "companyName is required")
	}

	switch sourceChannel {
	case SourceContactForm:
		if phone == "" {
			fields = append(fields, "phone is required for contact form submissions")
		}
	case SourceDemoRequest, SourceCRMChatbot:
		if strings.TrimSpace(raw.TeamSize) == "" {
			fields = append(fields, "teamSize is required")
		}
		if strings.TrimSpace(raw.IndustryType) == "" && strings.TrimSpace(raw.Industry) == "" {
			fields = append(fields, "industry is required")
		}
	}

	if len(fields) > 0 {
		return leadscore.LeadInput{}, &ValidationError{Fields: fields}
	}

	interests := raw.Interests
	if len(raw.SpecificInterests) > 0 {
		interests = raw.SpecificInterests
	}

	return leadscore.LeadInput{
		ContactName:         name,
		ContactEmail:        email,
		ContactPhone:        phone,
		CompanyName:         company,
		TeamSizeBucket:      truncate(raw.TeamSize, maxNameLen),
		Industry:            truncate(firstNonEmpty(raw.IndustryType, raw.Industry), maxIndustryLen),
		Interests:           capInterests(interests),
		Urgency:             MapUrgency(firstNonEmpty(raw.Urgency, raw.Timeline)),
		Message:             truncate(firstNonEmpty(raw.Message, raw.Notes), maxMessageLen),
		ConversationContext: capContext(raw.ConversationContext),
		SourceChannel:       sourceChannel,
		SessionID:           strings.TrimSpace(raw.SessionID),
	}, nil
}

// urgencyBuckets maps timing phrases to urgency values. Order matters: the
// first bucket with a matching keyword wins, and scoring reproducibility
// depends on that ordering.
var urgencyBuckets = []struct {
	urgency  leadscore.Urgency
	keywords []string
}{
	{leadscore.UrgencyImmediate, []string{"asap", "immediate", "urgent", "right away", "today"}},
	{leadscore.UrgencyThisWeek, []string{"this week", "soon", "few days"}},
	{leadscore.UrgencyNextWeek, []string{"next week"}},
}

// MapUrgency classifies a free-text timing string into one of the four
// urgency buckets, defaulting to flexible.
func MapUrgency(timing string) leadscore.Urgency {
	text := strings.ToLower(strings.TrimSpace(timing))
	if u := leadscore.Urgency(text); u == leadscore.UrgencyImmediate ||
		u == leadscore.UrgencyThisWeek || u == leadscore.UrgencyNextWeek || u == leadscore.UrgencyFlexible {
		return u
	}
	for _, bucket := range urgencyBuckets {
		for _, kw := range bucket.keywords {
			if strings.Contains(text, kw) {
				return bucket.urgency
			}
		}
	}
	return leadscore.UrgencyFlexible
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

// capInterests trims each entry and bounds the combined blob.
func capInterests(interests []string) []string {
	var out []string
	budget := maxInterestsLen
	for _, raw := range interests {
		v := strings.TrimSpace(raw)
		if v == "" {
			continue
		}
		if len(v) > budget {
			v = v[:budget]
		}
		budget -= len(v)
		out = append(out, v)
		if budget <= 0 {
			break
		}
	}
	return out
}

// capContext keeps the most recent entries, each length-capped.
func capContext(context []string) []string {
	if len(context) > maxContextEntries {
		context = context[len(context)-maxContextEntries:]
	}
	var out []string
	for _, raw := range context {
		v := truncate(raw, maxContextEntryLen)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
