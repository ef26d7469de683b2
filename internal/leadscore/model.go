package leadscore

// Urgency is the lead's self-reported timing preference, normalized into four
// buckets at intake time.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyThisWeek  Urgency = "this_week"
	UrgencyNextWeek  Urgency = "next_week"
	UrgencyFlexible  Urgency = "flexible"
)

// Priority is the triage tier shown to the sales team.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityHot    Priority = "HOT"
)

// LeadInput is the canonical post-normalization submission shape. The scorer
// treats it as read-only.
type LeadInput struct {
	ContactName    string   `json:"contactName"`
	ContactEmail   string   `json:"contactEmail"`
	ContactPhone   string   `json:"contactPhone,omitempty"`
	CompanyName    string   `json:"companyName"`
	TeamSizeBucket string   `json:"teamSizeBucket,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Interests      []string `json:"interests,omitempty"`
	Urgency        Urgency  `json:"urgency"`
	Message        string   `json:"message,omitempty"`

	// ConversationContext holds prior chat turns, newest last. Used only as a
	// scoring signal.
	ConversationContext []string `json:"conversationContext,omitempty"`
	SourceChannel       string   `json:"sourceChannel"`
	SessionID           string   `json:"sessionId,omitempty"`
}

// LeadScore is the scorer output. Immutable once computed.
type LeadScore struct {
	Score     int      `json:"score"`
	Priority  Priority `json:"priority"`
	IsHotLead bool     `json:"isHotLead"`
	Reasons   []string `json:"reasons"`
}

// RecommendedAction returns the follow-up guidance for a priority tier. The
// notifier embeds these values in outbound email/SMS; they are stable.
func (p Priority) RecommendedAction() string {
	switch p {
	case PriorityHot:
		return "Contact within 1 hour"
	case PriorityHigh:
		return "Contact within 2-4 hours"
	case PriorityMedium:
		return "Contact within 24 hours"
	default:
		return "Add to nurture sequence"
	}
}

// SubjectPrefix returns the admin email subject prefix for a priority tier.
func (p Priority) SubjectPrefix() string {
	switch p {
	case PriorityHot:
		return "🔥 HOT LEAD"
	case PriorityHigh:
		return "⚡ High Priority Lead"
	case PriorityMedium:
		return "📋 New Lead"
	default:
		return "📥 Lead"
	}
}
