package store

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"goal-tracker/internal/config"
	"goal-tracker/internal/goals"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Store = config.StoreSQLite
	cfg.StorePath = filepath.Join(dir, "goals.db")
	sqlite, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"file":   NewFile(filepath.Join(dir, "nested", "kv.json")),
		"sqlite": sqlite.KV,
	}
}

func TestKVGetSet(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
				t.Fatalf("Get(missing) = ok %v err %v", ok, err)
			}
			if err := kv.Set(ctx, "k", "v1"); err != nil {
				t.Fatalf("Set: %v", err)
			}
			if err := kv.Set(ctx, "k", "v2"); err != nil {
				t.Fatalf("Set overwrite: %v", err)
			}
			got, ok, err := kv.Get(ctx, "k")
			if err != nil || !ok || got != "v2" {
				t.Errorf("Get(k) = %q %v %v, want v2", got, ok, err)
			}
		})
	}
}

func TestAdapterRoundTrip(t *testing.T) {
	ctx := context.Background()
	goal := goals.InitialGoals()[0]
	actuals := goals.ActualsFor(goal)
	actuals[1].ActualScore = "47"

	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			adapter := NewAdapter(kv, quietLogger())
			if err := adapter.Save(ctx, goal, actuals); err != nil {
				t.Fatalf("Save: %v", err)
			}

			gotGoal, gotActuals, err := adapter.Load(ctx)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if gotGoal == nil {
				t.Fatal("Load returned no goal")
			}
			if diff := cmp.Diff(goal, *gotGoal); diff != "" {
				t.Errorf("goal mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(actuals, gotActuals); diff != "" {
				t.Errorf("actuals mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAdapterLastSaveWins(t *testing.T) {
	ctx := context.Background()
	adapter := NewAdapter(NewMemory(), quietLogger())
	list := goals.InitialGoals()

	if err := adapter.Save(ctx, list[0], goals.ActualsFor(list[0])); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := adapter.Save(ctx, list[1], goals.ActualsFor(list[1])); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != 2 {
		t.Errorf("loaded goal id = %d, want 2", got.ID)
	}
}

func TestAdapterLoadEmpty(t *testing.T) {
	adapter := NewAdapter(NewMemory(), quietLogger())
	goal, actuals, err := adapter.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if goal != nil || actuals != nil {
		t.Errorf("Load on empty store = %v, %v; want nil, nil", goal, actuals)
	}
}

func TestAdapterLoadCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	kv.Set(ctx, KeySelectedGoal, "{not json")
	kv.Set(ctx, KeyActualData, `[{"date":"2023-03-01","score":"20","actualScore":"18"}]`)

	goal, actuals, err := NewAdapter(kv, quietLogger()).Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if goal != nil {
		t.Errorf("corrupt goal should load as absent, got %+v", goal)
	}
	if len(actuals) != 1 || actuals[0].ActualScore != "18" {
		t.Errorf("actuals = %+v", actuals)
	}
}

func TestFileCorruptReadsEmptyAndRecovers(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.json")
	if err := os.WriteFile(path, []byte("{truncated"), 0o644); err != nil {
		t.Fatal(err)
	}
	kv := NewFile(path)

	if _, ok, err := kv.Get(ctx, KeySelectedGoal); err != nil || ok {
		t.Fatalf("Get on corrupt file = ok %v, err %v; want absent", ok, err)
	}

	adapter := NewAdapter(kv, quietLogger())
	goal := goals.InitialGoals()[0]
	if err := adapter.Save(ctx, goal, goals.ActualsFor(goal)); err != nil {
		t.Fatalf("Save over corrupt file: %v", err)
	}
	got, actuals, err := adapter.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.Name != goal.Name {
		t.Errorf("loaded goal = %+v, want %q", got, goal.Name)
	}
	if len(actuals) != len(goal.Waypoints) {
		t.Errorf("actuals = %d, want %d", len(actuals), len(goal.Waypoints))
	}
}

func TestOpenUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Store = "etcd"
	if _, err := Open(context.Background(), cfg); err == nil {
		t.Error("expected error for unknown store")
	}
}
