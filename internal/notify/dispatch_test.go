package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewsight/crewsight-platform/internal/leadscore"
	"github.com/crewsight/crewsight-platform/internal/leadstore"
	"github.com/crewsight/crewsight-platform/pkg/logging"
)

// Mock implementations

type mockEmailSender struct {
	mu      sync.Mutex
	sent    []EmailMessage
	callErr error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.callErr != nil {
		return m.callErr
	}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	return nil
}

type mockSMSSender struct {
	mu      sync.Mutex
	sent    []struct{ to, body string }
	callErr error
}

func (m *mockSMSSender) SendSMS(ctx context.Context, to, body string) error {
	if m.callErr != nil {
		return m.callErr
	}
	m.mu.Lock()
	m.sent = append(m.sent, struct{ to, body string }{to, body})
	m.mu.Unlock()
	return nil
}

type mockSheetSyncer struct {
	mu        sync.Mutex
	appended  []*leadstore.Record
	failTimes int
	calls     int
}

func (m *mockSheetSyncer) AppendLead(ctx context.Context, rec *leadstore.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failTimes {
		return errors.New("sheets unavailable")
	}
	m.appended = append(m.appended, rec)
	return nil
}

func testRecord(priority leadscore.Priority) *leadstore.Record {
	return &leadstore.Record{
		ID: "lead-123",
		Input: leadscore.LeadInput{
			ContactName:   "Jo Lee",
			ContactEmail:  "jo@acme.com",
			CompanyName:   "Acme Builders",
			Urgency:       leadscore.UrgencyThisWeek,
			SourceChannel: "demo_request",
		},
		Score: leadscore.LeadScore{
			Score:    65,
			Priority: priority,
			Reasons:  []string{"Ready this week (+20)"},
		},
		Status:    leadstore.StatusNew,
		CreatedAt: time.Now().UTC(),
	}
}

func testDispatchConfig() Config {
	return Config{
		AdminEmail:     "sales-alerts@crewsight.com",
		AdminCC:        "sales@crewsight.com",
		SalesPhone:     "+15550100",
		ChannelTimeout: time.Second,
		SheetRetry:     RetryPolicy{MaxAttempts: 3, Base: time.Millisecond},
	}
}

func TestDispatchAllChannelsSucceed(t *testing.T) {
	email := &mockEmailSender{}
	sms := &mockSMSSender{}
	sheets := &mockSheetSyncer{}
	d := NewDispatcher(email, sms, sheets, testDispatchConfig(), logging.Default())

	result := d.Dispatch(context.Background(), testRecord(leadscore.PriorityHigh))

	require.Len(t, result.PerChannel, 4)
	for channel, outcome := range result.PerChannel {
		assert.Equal(t, OutcomeOK, outcome.Status, "channel %s", channel)
	}
	assert.Len(t, email.sent, 2) // admin alert + user confirmation
	assert.Len(t, sms.sent, 1)
	assert.Len(t, sheets.appended, 1)
	assert.Empty(t, result.FailedChannels())
}

func TestDispatchAdminAlertCarriesCC(t *testing.T) {
	email := &mockEmailSender{}
	d := NewDispatcher(email, nil, nil, testDispatchConfig(), logging.Default())

	d.Dispatch(context.Background(), testRecord(leadscore.PriorityHot))

	var admin *EmailMessage
	for i := range email.sent {
		if email.sent[i].To == "sales-alerts@crewsight.com" {
			admin = &email.sent[i]
		}
	}
	require.NotNil(t, admin, "admin alert not sent")
	assert.Equal(t, "sales@crewsight.com", admin.CC)
}

func TestDispatchIsolatesChannelFailures(t *testing.T) {
	email := &mockEmailSender{}
	sms := &mockSMSSender{callErr: errors.New("twilio down")}
	sheets := &mockSheetSyncer{}
	d := NewDispatcher(email, sms, sheets, testDispatchConfig(), logging.Default())

	result := d.Dispatch(context.Background(), testRecord(leadscore.PriorityHigh))

	assert.Equal(t, OutcomeFailed, result.PerChannel[ChannelSMS].Status)
	assert.Equal(t, OutcomeOK, result.PerChannel[ChannelAdminEmail].Status)
	assert.Equal(t, OutcomeOK, result.PerChannel[ChannelUserEmail].Status)
	assert.Equal(t, OutcomeOK, result.PerChannel[ChannelSheetSync].Status)
	assert.Equal(t, []string{ChannelSMS}, result.FailedChannels())
}

func TestDispatchDisabledIsNotFailed(t *testing.T) {
	d := NewDispatcher(nil, nil, nil, Config{}, logging.Default())

	result := d.Dispatch(context.Background(), testRecord(leadscore.PriorityHigh))

	for channel, outcome := range result.PerChannel {
		assert.Equal(t, OutcomeDisabled, outcome.Status, "channel %s", channel)
		assert.Empty(t, outcome.Error, "channel %s", channel)
	}
	assert.Empty(t, result.FailedChannels())
}

func TestDispatchSendsSMSForLowPriority(t *testing.T) {
	sms := &mockSMSSender{}
	d := NewDispatcher(nil, sms, nil, testDispatchConfig(), logging.Default())

	result := d.Dispatch(context.Background(), testRecord(leadscore.PriorityLow))

	assert.Equal(t, OutcomeOK, result.PerChannel[ChannelSMS].Status)
	require.Len(t, sms.sent, 1)
	assert.Equal(t, testDispatchConfig().SalesPhone, sms.sent[0].to)
}

func TestDispatchSheetRetryRecovers(t *testing.T) {
	sheets := &mockSheetSyncer{failTimes: 2}
	d := NewDispatcher(nil, nil, sheets, testDispatchConfig(), logging.Default())

	result := d.Dispatch(context.Background(), testRecord(leadscore.PriorityMedium))

	outcome := result.PerChannel[ChannelSheetSync]
	assert.Equal(t, OutcomeOK, outcome.Status)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Len(t, sheets.appended, 1)
}

func TestDispatchSheetRetryExhausted(t *testing.T) {
	sheets := &mockSheetSyncer{failTimes: 10}
	d := NewDispatcher(nil, nil, sheets, testDispatchConfig(), logging.Default())

	result := d.Dispatch(context.Background(), testRecord(leadscore.PriorityMedium))

	outcome := result.PerChannel[ChannelSheetSync]
	assert.Equal(t, OutcomeFailed, outcome.Status)
	assert.Equal(t, 3, outcome.Attempts)
	assert.Contains(t, outcome.Error, "attempts exhausted")
}
