package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Envelope is what we store with every event.
type Envelope struct {
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request headers.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web", "tui":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

// Local is the envelope for an in-process front end. Each call starts a new
// session.
func Local(platform, appVersion string) Envelope {
	return Envelope{
		SessionID:  uuid.NewString(),
		Platform:   platform,
		AppVersion: appVersion,
	}
}

// SourceEventKeyFromRequest returns the client idempotency key, if any.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Recorder stores one activity event. Callers pass sanitized props (ids,
// lengths, flags), never raw user text. Implementations must not fail the
// caller's flow; the returned error is for logging only.
type Recorder interface {
	Record(ctx context.Context, env Envelope, eventName string, props map[string]any, sourceEventKey string) error
}

type nop struct{}

func (nop) Record(context.Context, Envelope, string, map[string]any, string) error { return nil }

// Nop discards events.
var Nop Recorder = nop{}

// LogRecorder writes events to a structured logger.
type LogRecorder struct {
	Logger *slog.Logger
}

func (l LogRecorder) Record(ctx context.Context, env Envelope, eventName string, props map[string]any, sourceEventKey string) error {
	if eventName == "" {
		return nil
	}
	l.Logger.LogAttrs(ctx, slog.LevelInfo, "event",
		slog.String("name", eventName),
		slog.String("session_id", env.SessionID),
		slog.String("platform", env.Platform),
		slog.Any("props", props),
	)
	return nil
}

// SQLRecorder inserts into analytics_events. A repeated source event key is
// ignored.
type SQLRecorder struct {
	DB *sql.DB
}

func (s SQLRecorder) Record(ctx context.Context, env Envelope, eventName string, props map[string]any, sourceEventKey string) error {
	if eventName == "" {
		return nil
	}

	b, err := json.Marshal(props)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO analytics_events (
			event_name, event_time,
			session_id,
			platform, app_version, device_locale,
			source_event_key,
			properties
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_event_key) DO NOTHING
	`, eventName, time.Now().UTC(),
		nullIfEmpty(env.SessionID),
		env.Platform, env.AppVersion, nullIfEmpty(env.DeviceLocale),
		nullIfEmpty(sourceEventKey),
		string(b),
	)
	return err
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
