package leadscore

import (
	"fmt"
	"strings"
)

// Each classifier below is a pure function over lowercased text with its
// keyword table as package data. Table order is significant: rules match
// first-to-last and the scorer's reason ordering depends on it.

type keywordRule struct {
	keywords []string
	points   int
	label    string
}

var teamSizeRules = []keywordRule{
	{keywords: []string{"100+", "large", "enterprise"}, points: 25, label: "Enterprise team size"},
	{keywords: []string{"26-100", "medium"}, points: 20, label: "Medium team size"},
	{keywords: []string{"11-25", "growing"}, points: 15, label: "Growing team size"},
	{keywords: []string{"1-10", "small"}, points: 5, label: "Small team size"},
}

var industryRules = []keywordRule{
	{keywords: []string{"commercial"}, points: 20, label: "Commercial construction"},
	{keywords: []string{"industrial"}, points: 20, label: "Industrial construction"},
	{keywords: []string{"infrastructure"}, points: 15, label: "Infrastructure projects"},
	{keywords: []string{"mixed", "multiple"}, points: 15, label: "Multiple construction sectors"},
	{keywords: []string{"residential"}, points: 10, label: "Residential construction"},
}

var interestRules = []keywordRule{
	{keywords: []string{"full platform"}, points: 25, label: "Wants the full platform"},
	{keywords: []string{"all features"}, points: 25, label: "Wants all features"},
	{keywords: []string{"payroll"}, points: 20, label: "Payroll interest"},
	{keywords: []string{"employee management"}, points: 15, label: "Employee management interest"},
	{keywords: []string{"project management"}, points: 15, label: "Project management interest"},
	{keywords: []string{"safety"}, points: 15, label: "Safety & compliance interest"},
	// A bare "api" substring would also match words like "rapid" or
	// "capital", so the keyword requires the full phrase.
	{keywords: []string{"api access", "api-access"}, points: 15, label: "API access interest"},
	{keywords: []string{"analytics"}, points: 10, label: "Analytics interest"},
	{keywords: []string{"reporting"}, points: 10, label: "Reporting interest"},
	{keywords: []string{"mobile"}, points: 10, label: "Mobile access interest"},
}

var urgencyPoints = map[Urgency]struct {
	points int
	label  string
}{
	UrgencyImmediate: {25, "Immediate timeline"},
	UrgencyThisWeek:  {20, "Ready this week"},
	UrgencyNextWeek:  {15, "Ready next week"},
	UrgencyFlexible:  {5, "Flexible timeline"},
}

// signalGroups are buying signals scanned across the whole conversation
// context. Each group fires at most once no matter how many keywords match.
var signalGroups = []keywordRule{
	{keywords: []string{"budget", "cost", "price", "pricing", "how much"}, points: 15, label: "Discussed budget"},
	{keywords: []string{"implementation", "onboarding", "setup", "get started", "rollout"}, points: 20, label: "Asked about implementation"},
	{keywords: []string{"roi", "return on investment", "save money", "savings"}, points: 15, label: "Focused on ROI"},
	{keywords: []string{"competitor", "procore", "buildertrend", "compare", "versus", "vs "}, points: 10, label: "Comparing against competitors"},
	{keywords: []string{"team", "staff", "crew", "employees", "workers"}, points: 10, label: "Discussed team and staffing"},
	{keywords: []string{"problem", "struggle", "frustrat", "pain", "manual", "spreadsheet"}, points: 15, label: "Expressed pain points"},
}

// classifyTeamSize returns points and reason for a team-size bucket string.
// First matching rule wins; unmatched buckets score zero.
func classifyTeamSize(bucket string) (int, string) {
	text := strings.ToLower(bucket)
	for _, r := range teamSizeRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.points, fmt.Sprintf("%s (+%d)", r.label, r.points)
			}
		}
	}
	return 0, ""
}

func classifyIndustry(industry string) (int, string) {
	text := strings.ToLower(industry)
	for _, r := range industryRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.points, fmt.Sprintf("%s (+%d)", r.label, r.points)
			}
		}
	}
	return 0, ""
}

// classifyInterests scores every interest string against every rule. A single
// interest can match several rules and accumulate points for each; that
// double-counting is deliberate.
func classifyInterests(interests []string) (int, []string) {
	total := 0
	var reasons []string
	for _, interest := range interests {
		text := strings.ToLower(interest)
		for _, r := range interestRules {
			for _, kw := range r.keywords {
				if strings.Contains(text, kw) {
					total += r.points
					reasons = append(reasons, fmt.Sprintf("%s (+%d)", r.label, r.points))
					break
				}
			}
		}
	}
	return total, reasons
}

func classifyUrgency(u Urgency) (int, string) {
	entry, ok := urgencyPoints[u]
	if !ok {
		return 0, ""
	}
	return entry.points, fmt.Sprintf("%s (+%d)", entry.label, entry.points)
}

// classifyBuyingSignals scans the concatenated conversation text. Each signal
// group contributes at most once.
func classifyBuyingSignals(context []string, message string) (int, []string) {
	text := strings.ToLower(strings.Join(context, " ") + " " + message)
	total := 0
	var reasons []string
	for _, g := range signalGroups {
		for _, kw := range g.keywords {
			if strings.Contains(text, kw) {
				total += g.points
				reasons = append(reasons, fmt.Sprintf("%s (+%d)", g.label, g.points))
				break
			}
		}
	}
	return total, reasons
}
