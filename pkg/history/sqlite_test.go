package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"permitbase/ordinance/pkg/compliance"
	"permitbase/ordinance/pkg/ruleset"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() *compliance.Result {
	return &compliance.Result{
		IsCompliant: false,
		Violations: []compliance.Finding{
			{
				Code:          "SET-001",
				Severity:      ruleset.SeverityCritical,
				Rule:          "Front setback",
				Message:       "Front setback 4.5 is below the required 5.",
				CurrentValue:  4.5,
				RequiredValue: 5.0,
				Location:      "front",
			},
		},
		Warnings:       []compliance.Finding{},
		RuleSetName:    "residential-2024",
		RuleSetVersion: "2024.1",
		CheckedRules:   3,
		EvaluationTime: 2 * time.Millisecond,
	}
}

func TestStoreSaveGet_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, NewReport(sampleResult()))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if id == "" {
		t.Fatal("Save() returned empty id")
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want report")
	}

	if got.RuleSetName != "residential-2024" || got.RuleSetVersion != "2024.1" {
		t.Errorf("rule set = %q %q", got.RuleSetName, got.RuleSetVersion)
	}
	if got.IsCompliant {
		t.Error("IsCompliant = true, want false")
	}
	if len(got.Violations) != 1 {
		t.Fatalf("len(Violations) = %d, want 1", len(got.Violations))
	}
	v := got.Violations[0]
	if v.Code != "SET-001" || v.Message != "Front setback 4.5 is below the required 5." {
		t.Errorf("violation = %+v", v)
	}
	if got.EvaluationTime != 2*time.Millisecond {
		t.Errorf("EvaluationTime = %v, want 2ms", got.EvaluationTime)
	}
}

func TestStoreGet_Absent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil for absent report", got)
	}
}

func TestStoreList_FilterAndOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	older := NewReport(sampleResult())
	older.CreatedAt = time.Now().Add(-2 * time.Hour)
	if _, err := store.Save(ctx, older); err != nil {
		t.Fatal(err)
	}

	other := NewReport(sampleResult())
	other.RuleSetName = "commercial-2024"
	if _, err := store.Save(ctx, other); err != nil {
		t.Fatal(err)
	}

	newest := NewReport(sampleResult())
	if _, err := store.Save(ctx, newest); err != nil {
		t.Fatal(err)
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List() returned %d reports, want 3", len(all))
	}
	if all[len(all)-1].ID != older.ID {
		t.Error("List() order: oldest report not last")
	}

	residential, err := store.List(ctx, ListFilter{RuleSetName: "residential-2024"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(residential) != 2 {
		t.Errorf("List(rule set filter) returned %d, want 2", len(residential))
	}

	recent, err := store.List(ctx, ListFilter{Since: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(recent) != 2 {
		t.Errorf("List(since filter) returned %d, want 2", len(recent))
	}

	limited, err := store.List(ctx, ListFilter{Limit: 1})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("List(limit 1) returned %d, want 1", len(limited))
	}
}

func TestStorePruneBefore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := NewReport(sampleResult())
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	if _, err := store.Save(ctx, old); err != nil {
		t.Fatal(err)
	}
	fresh := NewReport(sampleResult())
	if _, err := store.Save(ctx, fresh); err != nil {
		t.Fatal(err)
	}

	deleted, err := store.PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("PruneBefore() deleted = %d, want 1", deleted)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	// The fresh report must survive.
	if got, err := store.Get(ctx, fresh.ID); err != nil || got == nil {
		t.Errorf("Get(fresh) = (%v, %v), want surviving report", got, err)
	}
}

func TestStoreTrimToLimit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 5; i++ {
		report := NewReport(sampleResult())
		report.CreatedAt = time.Now().Add(time.Duration(i-5) * time.Hour)
		id, err := store.Save(ctx, report)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, id)
	}

	deleted, err := store.TrimToLimit(ctx, 2)
	if err != nil {
		t.Fatalf("TrimToLimit() error = %v", err)
	}
	if deleted != 3 {
		t.Errorf("TrimToLimit() deleted = %d, want 3", deleted)
	}

	// The two newest reports survive.
	for _, id := range ids[3:] {
		if got, err := store.Get(ctx, id); err != nil || got == nil {
			t.Errorf("Get(%s) = (%v, %v), want surviving report", id, got, err)
		}
	}

	if deleted, err := store.TrimToLimit(ctx, 0); err != nil || deleted != 0 {
		t.Errorf("TrimToLimit(0) = (%d, %v), want no-op", deleted, err)
	}
}

func TestStoreClose_Idempotent(t *testing.T) {
	store, err := NewStore(StoreConfig{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}
