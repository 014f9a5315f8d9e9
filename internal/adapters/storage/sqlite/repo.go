package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/osvalOrd/TrelloClone/internal/domain"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// defaultListLimit caps ListChangeEvents when callers pass a non-positive limit.
const defaultListLimit = 50

// Journal stores board activity in an in-memory SQLite database that lives as long as the process.
type Journal struct {
	db *sql.DB
}

// OpenInMemory opens a named in-memory journal. Journals with different names never share rows.
func OpenInMemory(name string) (*Journal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "trelloclone"
	}
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", url.PathEscape(name))
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// One connection keeps the shared-cache database alive and serializes writers.
	db.SetMaxOpenConns(1)
	j := &Journal{db: db}
	if err := j.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// Close releases the database. Rows are gone once the last connection closes.
func (j *Journal) Close() error {
	return j.db.Close()
}

// migrate handles migrate.
func (j *Journal) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS change_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			revision INTEGER NOT NULL,
			operation TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_id TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			actor_id TEXT NOT NULL,
			actor_type TEXT NOT NULL,
			occurred_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_change_events_revision ON change_events(revision DESC, id DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// RecordChangeEvent inserts one activity row and returns it with its assigned id.
func (j *Journal) RecordChangeEvent(ctx context.Context, event domain.ChangeEvent) (domain.ChangeEvent, error) {
	event.ActorID = chooseActorID(event.ActorID, "local")
	event.ActorType = domain.NormalizeActorType(event.ActorType)
	event.OccurredAt = normalizeEventTS(event.OccurredAt)
	res, err := j.db.ExecContext(ctx, `
		INSERT INTO change_events(revision, operation, target_type, target_id, summary, actor_id, actor_type, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		int64(event.Revision),
		string(event.Operation),
		string(event.TargetType),
		event.TargetID,
		event.Summary,
		event.ActorID,
		string(event.ActorType),
		ts(event.OccurredAt),
	)
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("insert change event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.ChangeEvent{}, fmt.Errorf("insert change event id: %w", err)
	}
	event.ID = id
	return event, nil
}

// ListChangeEvents returns up to limit events, newest first.
func (j *Journal) ListChangeEvents(ctx context.Context, limit int) ([]domain.ChangeEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, revision, operation, target_type, target_id, summary, actor_id, actor_type, occurred_at
		FROM change_events
		ORDER BY revision DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChangeEvent, 0)
	for rows.Next() {
		var (
			event       domain.ChangeEvent
			revision    int64
			opRaw       string
			targetRaw   string
			actorType   string
			occurredRaw string
		)
		if err := rows.Scan(&event.ID, &revision, &opRaw, &targetRaw, &event.TargetID, &event.Summary, &event.ActorID, &actorType, &occurredRaw); err != nil {
			return nil, err
		}
		event.Revision = uint64(revision)
		event.Operation = domain.ChangeOperation(opRaw)
		event.TargetType = domain.ChangeTarget(targetRaw)
		event.ActorType = domain.NormalizeActorType(domain.ActorType(actorType))
		event.OccurredAt = parseTS(occurredRaw)
		out = append(out, event)
	}
	return out, rows.Err()
}

// chooseActorID returns the trimmed actor id or fallback when empty.
func chooseActorID(actorID, fallback string) string {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return fallback
	}
	return actorID
}

// normalizeEventTS stamps zero timestamps with the current time.
func normalizeEventTS(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
