package leadscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTeamSize(t *testing.T) {
	tests := []struct {
		bucket string
		points int
	}{
		{"100+ employees", 25},
		{"Large enterprise crew", 25},
		{"26-100 employees", 20},
		{"medium sized", 20},
		{"11-25 employees", 15},
		{"growing fast", 15},
		{"1-10 employees", 5},
		{"small shop", 5},
		{"just me", 0},
		{"", 0},
	}
	for _, tt := range tests {
		pts, reason := classifyTeamSize(tt.bucket)
		assert.Equal(t, tt.points, pts, "bucket %q", tt.bucket)
		if tt.points > 0 {
			assert.NotEmpty(t, reason)
		} else {
			assert.Empty(t, reason)
		}
	}
}

func TestClassifyIndustry(t *testing.T) {
	tests := []struct {
		industry string
		points   int
	}{
		{"Commercial Construction", 20},
		{"industrial", 20},
		{"Infrastructure & civil works", 15},
		{"mixed portfolio", 15},
		{"multiple sectors", 15},
		{"Residential homes", 10},
		{"landscaping", 0},
	}
	for _, tt := range tests {
		pts, _ := classifyIndustry(tt.industry)
		assert.Equal(t, tt.points, pts, "industry %q", tt.industry)
	}
}

func TestClassifyInterestsSingleStringMatchesMultipleRules(t *testing.T) {
	// One interest string may hit several keyword rules; each accumulates.
	pts, reasons := classifyInterests([]string{"payroll plus analytics reporting"})

	assert.Equal(t, 20+10+10, pts)
	assert.Len(t, reasons, 3)
}

func TestClassifyInterestsAPIRequiresFullPhrase(t *testing.T) {
	// Words that merely contain "api" must not score as API interest.
	pts, reasons := classifyInterests([]string{"rapid response team", "capital planning"})
	assert.Zero(t, pts)
	assert.Empty(t, reasons)

	pts, reasons = classifyInterests([]string{"api access for our ERP"})
	assert.Equal(t, 15, pts)
	assert.Len(t, reasons, 1)

	pts, _ = classifyInterests([]string{"api-access"})
	assert.Equal(t, 15, pts)
}

func TestClassifyInterestsEmpty(t *testing.T) {
	pts, reasons := classifyInterests(nil)
	assert.Zero(t, pts)
	assert.Empty(t, reasons)
}

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		urgency Urgency
		points  int
	}{
		{UrgencyImmediate, 25},
		{UrgencyThisWeek, 20},
		{UrgencyNextWeek, 15},
		{UrgencyFlexible, 5},
		{Urgency("whenever"), 0},
	}
	for _, tt := range tests {
		pts, _ := classifyUrgency(tt.urgency)
		assert.Equal(t, tt.points, pts, "urgency %q", tt.urgency)
	}
}

func TestBuyingSignalGroupFiresOnce(t *testing.T) {
	// Three budget keywords in context, but the budget group counts once.
	pts, reasons := classifyBuyingSignals([]string{
		"what is the price", "what does it cost", "is it in our budget",
	}, "")

	assert.Equal(t, 15, pts)
	assert.Len(t, reasons, 1)
}

func TestBuyingSignalsAcrossContextAndMessage(t *testing.T) {
	pts, reasons := classifyBuyingSignals(
		[]string{"we keep losing hours to spreadsheets"},
		"how fast is onboarding for a 30 person crew?",
	)

	// pain points (15) + implementation (20) + team/staffing (10)
	assert.Equal(t, 45, pts)
	assert.Len(t, reasons, 3)
}

func TestBuyingSignalsNone(t *testing.T) {
	pts, reasons := classifyBuyingSignals([]string{"hello there"}, "good morning")
	assert.Zero(t, pts)
	assert.Empty(t, reasons)
}
