// Package leadscore computes deterministic sales-priority scores for intake
// leads. Scoring is pure: no I/O, no clock, no randomness, so the same input
// always yields the same LeadScore.
package leadscore

import "strings"

// Score evaluates the five additive rules in a fixed order (team size,
// industry, interests, urgency, buying signals) and derives the priority tier.
func Score(input LeadInput) LeadScore {
	total := 0
	var reasons []string

	if pts, reason := classifyTeamSize(input.TeamSizeBucket); pts > 0 {
		total += pts
		reasons = append(reasons, reason)
	}

	if pts, reason := classifyIndustry(input.Industry); pts > 0 {
		total += pts
		reasons = append(reasons, reason)
	}

	pts, interestReasons := classifyInterests(input.Interests)
	total += pts
	reasons = append(reasons, interestReasons...)

	if pts, reason := classifyUrgency(input.Urgency); pts > 0 {
		total += pts
		reasons = append(reasons, reason)
	}

	pts, signalReasons := classifyBuyingSignals(input.ConversationContext, input.Message)
	total += pts
	reasons = append(reasons, signalReasons...)

	hot := isHotLead(input)

	return LeadScore{
		Score:     total,
		Priority:  derivePriority(total, hot),
		IsHotLead: hot,
		Reasons:   reasons,
	}
}

// isHotLead is an independent predicate: it can flag a lead HOT even when the
// additive score alone would not clear the HIGH threshold.
func isHotLead(input LeadInput) bool {
	if pts, _ := classifyTeamSize(input.TeamSizeBucket); pts >= 15 {
		return true
	}
	industry := strings.ToLower(input.Industry)
	if strings.Contains(industry, "commercial") || strings.Contains(industry, "industrial") {
		return true
	}
	for _, interest := range input.Interests {
		text := strings.ToLower(interest)
		if strings.Contains(text, "full platform") || strings.Contains(text, "all features") || strings.Contains(text, "payroll") {
			return true
		}
	}
	return input.Urgency == UrgencyImmediate || input.Urgency == UrgencyThisWeek
}

// derivePriority evaluates tiers in order; the hot-lead predicate wins ahead
// of the numeric thresholds.
func derivePriority(score int, hot bool) Priority {
	switch {
	case hot:
		return PriorityHot
	case score >= 60:
		return PriorityHigh
	case score >= 30:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
