// Package leadstore owns persisted lead records: identity, status lifecycle,
// and privacy erasure. The Store interface is the contract any backing
// database must satisfy; the scorer never touches a stored record.
package leadstore

import (
	"context"
	"errors"
	"time"

	"github.com/crewsight/crewsight-platform/internal/leadscore"
)

var (
	// ErrNotFound is returned when no record exists for the given id.
	ErrNotFound = errors.New("lead not found")

	// ErrDuplicateID is returned when Put is called with an id that is
	// already stored. Status changes go through UpdateStatus only.
	ErrDuplicateID = errors.New("lead id already exists")

	// ErrInvalidStatus is returned for status values outside the lifecycle.
	ErrInvalidStatus = errors.New("invalid lead status")
)

// Status is the lead lifecycle state. Only UpdateStatus may change it.
type Status string

const (
	StatusNew           Status = "new"
	StatusContacted     Status = "contacted"
	StatusQualified     Status = "qualified"
	StatusDemoScheduled Status = "demo_scheduled"
	StatusClosedWon     Status = "closed_won"
	StatusClosedLost    Status = "closed_lost"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusDemoScheduled, StatusClosedWon, StatusClosedLost:
		return true
	}
	return false
}

// Record is a persisted lead: the normalized input, its score, and the
// sales-owned lifecycle fields.
type Record struct {
	ID             string              `json:"id"`
	Input          leadscore.LeadInput `json:"input"`
	Score          leadscore.LeadScore `json:"score"`
	Status         Status              `json:"status"`
	AssignedTo     string              `json:"assignedTo,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
	LastActivityAt time.Time           `json:"lastActivityAt"`
}

// Store is the persistence contract for lead records.
type Store interface {
	// Put inserts a fully constructed record. It never overwrites an
	// existing record.
	Put(ctx context.Context, rec *Record) error

	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// ListRecent returns up to limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Record, error)

	// Count returns the total number of stored records, independent of any
	// listing page size.
	Count(ctx context.Context) (int, error)

	// UpdateStatus transitions a record's lifecycle state and optionally
	// reassigns it. Returns the updated record, or ErrNotFound.
	UpdateStatus(ctx context.Context, id string, status Status, assignedTo string) (*Record, error)

	// EraseByEmail deletes every record whose contact email matches.
	// Idempotent: erasing an unknown email returns count 0 and no error.
	EraseByEmail(ctx context.Context, email string) (int, error)
}
