package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/talentprep/scorekit/internal/rolling"
)

// QueryOpts configures list queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	Kind  string    // assessment kind; empty matches all
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// AttemptRepo persists submitted attempts.
type AttemptRepo interface {
	// Append stores a. An empty ID is replaced with a fresh UUID and a zero
	// CreatedAt with the current time. The stored attempt is returned.
	Append(ctx context.Context, a rolling.Attempt) (rolling.Attempt, error)

	// Get returns the attempt with id, or nil if none exists.
	Get(ctx context.Context, id string) (*rolling.Attempt, error)

	// List returns attempts newest first.
	List(ctx context.Context, opts QueryOpts) ([]rolling.Attempt, error)

	// Delete removes an attempt and its snapshots.
	Delete(ctx context.Context, id string) error
}

// Snapshot is a stored scoring result for one attempt.
type Snapshot struct {
	ID        int
	Sequence  int64
	AttemptID string
	Timestamp time.Time
	Data      json.RawMessage
}

// SnapshotRepo manages scoring snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot for attemptID, or nil.
	Latest(ctx context.Context, attemptID string) (*Snapshot, error)

	// Prune deletes all but the keep most recent snapshots of attemptID.
	Prune(ctx context.Context, attemptID string, keep int) error
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by one dimension.
type LLMUsage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// LLMUsageByPurpose aggregates events by purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates events by model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
