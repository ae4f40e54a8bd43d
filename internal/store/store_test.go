package store

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/talentprep/scorekit/internal/rolling"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestOpenFile.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scorekit.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	// Reopening must not fail on existing tables.
	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s2.Close()
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, table := range []string{"attempts", "llm_request_events", "snapshots", "global_sequence"} {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq != int64(i+1) {
			t.Errorf("seq[%d] = %d, want %d", i, seq, i+1)
		}
		if seq <= prev {
			t.Errorf("seq[%d] = %d not after %d", i, seq, prev)
		}
		prev = seq
	}
}

func TestAttemptAppendAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	saved, err := repo.Append(ctx, rolling.Attempt{
		Kind:    rolling.DefaultKind,
		Answers: map[string]any{"q1": map[string]any{"r1": 4}},
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected a generated id")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("expected a creation time")
	}

	got, err := repo.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected attempt")
	}
	if got.Kind != rolling.DefaultKind {
		t.Errorf("kind = %q", got.Kind)
	}
	r1 := got.Answers["q1"].(map[string]any)["r1"]
	if n, ok := r1.(json.Number); !ok || n.String() != "4" {
		t.Errorf("answer r1 = %#v, want json.Number 4", r1)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}

	missing, err := repo.Get(ctx, "nope")
	if err != nil {
		t.Fatalf("get missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown id, got %+v", missing)
	}
}

func TestAttemptAppendRequiresKind(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.AttemptRepo().Append(context.Background(), rolling.Attempt{}); err == nil {
		t.Fatal("expected error for attempt without kind")
	}
}

func TestAttemptListOrdersSubSecondTimestamps(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	// Appended newest first so insertion order cannot mask the ordering.
	for _, a := range []struct {
		id     string
		offset time.Duration
	}{
		{"newer", 123 * time.Millisecond},
		{"older", 100 * time.Millisecond},
		{"oldest", 0},
	} {
		if _, err := repo.Append(ctx, rolling.Attempt{ID: a.id, Kind: rolling.DefaultKind, CreatedAt: base.Add(a.offset)}); err != nil {
			t.Fatalf("append %s: %v", a.id, err)
		}
	}

	latest, err := repo.List(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ids(latest); strings.Join(got, ",") != "newer" {
		t.Errorf("latest = %v, want [newer]", got)
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := ids(all); strings.Join(got, ",") != "newer,older,oldest" {
		t.Errorf("order = %v", got)
	}

	window, err := repo.List(ctx, QueryOpts{From: base.Add(100 * time.Millisecond), To: base.Add(110 * time.Millisecond)})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if got := ids(window); strings.Join(got, ",") != "older" {
		t.Errorf("window = %v, want [older]", got)
	}

	got, err := repo.Get(ctx, "older")
	if err != nil || got == nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(base.Add(100 * time.Millisecond)) {
		t.Errorf("created_at = %v", got.CreatedAt)
	}
}

func TestFormatTimeIsFixedWidth(t *testing.T) {
	whole := formatTime(time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC))
	frac := formatTime(time.Date(2026, 5, 1, 10, 0, 0, 100_000_000, time.FixedZone("CEST", 2*3600)))
	if len(whole) != len(frac) {
		t.Fatalf("widths differ: %q vs %q", whole, frac)
	}
	if frac != "2026-05-01T08:00:00.100000000Z" {
		t.Errorf("frac = %q", frac)
	}
	if whole >= frac {
		t.Errorf("%q should sort before %q", whole, frac)
	}
}

func TestAttemptListNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		kind := rolling.DefaultKind
		if i == 2 {
			kind = "nlng_behavioral"
		}
		_, err := repo.Append(ctx, rolling.Attempt{
			ID:        fmt.Sprintf("a%d", i),
			Kind:      kind,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	all, err := repo.List(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].ID != "a3" || all[3].ID != "a0" {
		t.Fatalf("list order = %v", ids(all))
	}

	sjq, err := repo.List(ctx, QueryOpts{Kind: rolling.DefaultKind, Limit: 2})
	if err != nil {
		t.Fatalf("list kind: %v", err)
	}
	if got := ids(sjq); strings.Join(got, ",") != "a3,a1" {
		t.Errorf("filtered = %v, want [a3 a1]", got)
	}

	window, err := repo.List(ctx, QueryOpts{From: base.Add(time.Hour), To: base.Add(2 * time.Hour)})
	if err != nil {
		t.Fatalf("list window: %v", err)
	}
	if got := ids(window); strings.Join(got, ",") != "a2,a1" {
		t.Errorf("window = %v, want [a2 a1]", got)
	}
}

func TestAttemptDeleteCascadesSnapshots(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	a, err := s.AttemptRepo().Append(ctx, rolling.Attempt{Kind: rolling.DefaultKind})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := s.SnapshotRepo().Save(ctx, &Snapshot{AttemptID: a.ID, Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := s.AttemptRepo().Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	snap, err := s.SnapshotRepo().Latest(ctx, a.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap != nil {
		t.Error("snapshot survived attempt deletion")
	}
}

func TestSnapshotSaveLatestPrune(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.SnapshotRepo()

	a, err := s.AttemptRepo().Append(ctx, rolling.Attempt{Kind: rolling.DefaultKind})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	snap, err := repo.Latest(ctx, a.ID)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	for i := 0; i < 7; i++ {
		err := repo.Save(ctx, &Snapshot{
			AttemptID: a.ID,
			Data:      json.RawMessage(fmt.Sprintf(`{"version":%d}`, i+1)),
		})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}

	snap, err = repo.Latest(ctx, a.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if string(snap.Data) != `{"version":7}` {
		t.Errorf("latest data = %s", snap.Data)
	}

	if err := repo.Prune(ctx, a.ID, 5); err != nil {
		t.Fatalf("prune: %v", err)
	}
	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("remaining snapshots = %d, want 5", count)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "m1", Purpose: "narrative", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true},
		{Provider: "anthropic", Model: "m1", Purpose: "narrative", InputTokens: 300, OutputTokens: 70, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "m2", Purpose: "tips", LatencyMs: 10, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Model != "m2" || got[0].Success || got[0].ErrorMessage != "rate limited" {
		t.Errorf("newest event = %+v", got[0])
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %+v", byPurpose)
	}
	n := byPurpose[0]
	if n.Key != "narrative" || n.Calls != 2 || n.InputTokens != 400 || n.OutputTokens != 120 || n.AvgLatencyMs != 300 {
		t.Errorf("narrative usage = %+v", n)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[1].Key != "m2" {
		t.Errorf("models = %+v", byModel)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SCOREKIT_DB", filepath.Join(dir, "custom", "x.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != filepath.Join(dir, "custom", "x.db") {
		t.Errorf("path = %q", p)
	}

	t.Setenv("SCOREKIT_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if p != filepath.Join(dir, "scorekit", "scorekit.db") {
		t.Errorf("path = %q", p)
	}
}

func ids(as []rolling.Attempt) []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = a.ID
	}
	return out
}
