package analytics

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"goal-tracker/internal/db"
)

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("POST", "/goals", nil)
	r.Header.Set("X-Platform", " Web ")
	r.Header.Set("X-Session-Id", "s-1")
	r.Header.Set("X-Device-Locale", "ja-JP")

	env := FromRequest(r)
	if env.Platform != "web" {
		t.Errorf("platform = %q, want web", env.Platform)
	}
	if env.SessionID != "s-1" {
		t.Errorf("session = %q", env.SessionID)
	}
	if env.DeviceLocale != "ja-JP" {
		t.Errorf("locale = %q", env.DeviceLocale)
	}

	r.Header.Set("X-Platform", "smartfridge")
	if got := FromRequest(r).Platform; got != "unknown" {
		t.Errorf("platform = %q, want unknown", got)
	}
}

func TestSourceEventKey(t *testing.T) {
	r := httptest.NewRequest("POST", "/goals", nil)
	r.Header.Set("X-Source-Event-Key", "fallback")
	if got := SourceEventKeyFromRequest(r); got != "fallback" {
		t.Errorf("key = %q, want fallback", got)
	}
	r.Header.Set("Idempotency-Key", "primary")
	if got := SourceEventKeyFromRequest(r); got != "primary" {
		t.Errorf("key = %q, want primary", got)
	}
}

func TestSQLRecorderIdempotent(t *testing.T) {
	ctx := context.Background()
	conn, err := db.Connect(db.SQLite, filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	rec := SQLRecorder{DB: conn}
	env := Local("tui", "test")
	props := map[string]any{"goal_id": 1}

	for i := 0; i < 2; i++ {
		if err := rec.Record(ctx, env, "goal_submitted", props, "k-1"); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := rec.Record(ctx, env, "goal_back", nil, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := rec.Record(ctx, env, "", nil, ""); err != nil {
		t.Fatalf("Record empty name: %v", err)
	}

	var n int
	if err := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM analytics_events`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 2 {
		t.Errorf("events = %d, want 2", n)
	}
}

func TestLogRecorder(t *testing.T) {
	var buf bytes.Buffer
	rec := LogRecorder{Logger: slog.New(slog.NewTextHandler(&buf, nil))}
	if err := rec.Record(context.Background(), Local("tui", "dev"), "goal_added", map[string]any{"name_len": 3}, ""); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !strings.Contains(buf.String(), "name=goal_added") {
		t.Errorf("log output missing event name: %s", buf.String())
	}
}
