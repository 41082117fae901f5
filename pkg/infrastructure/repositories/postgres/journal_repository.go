package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/vsinha/blendtrack/pkg/domain/repositories"
	"github.com/vsinha/blendtrack/pkg/infrastructure/events"
)

// maxSeqAttempts bounds retries when two writers race for a blend's next seq
const maxSeqAttempts = 3

type journalRow struct {
	BlendID  uuid.UUID `db:"blend_id"`
	Seq      int       `db:"seq"`
	Position int64     `db:"position"`
	Kind     string    `db:"kind"`
	At       time.Time `db:"at"`
	Payload  []byte    `db:"payload"`
}

func (r *journalRow) toEntry() events.Entry {
	return events.Entry{
		Kind:     r.Kind,
		BlendID:  r.BlendID.String(),
		Seq:      r.Seq,
		Position: r.Position,
		At:       r.At,
		Payload:  json.RawMessage(r.Payload),
	}
}

// JournalRepository keeps blend journals in the blend_journal table. Payloads
// are stored as JSON and come back as json.RawMessage.
type JournalRepository struct {
	db  DB
	now func() time.Time
}

func NewJournalRepository(db DB) *JournalRepository {
	return &JournalRepository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

var _ events.Journal = (*JournalRepository)(nil)

// Record appends an entry with the blend's next seq. A unique violation on
// (blend_id, seq) means another writer took the seq first, so it retries.
func (r *JournalRepository) Record(ctx context.Context, blendID, kind string, payload any, at time.Time) (events.Entry, error) {
	if blendID == "" || kind == "" {
		return events.Entry{}, events.ErrIncompleteEntry
	}
	id, err := uuid.Parse(blendID)
	if err != nil {
		return events.Entry{}, fmt.Errorf("journal blend id %q: %w", blendID, err)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return events.Entry{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	if at.IsZero() {
		at = r.now()
	}

	query, args, err := psql.Insert("blend_journal").
		Columns("blend_id", "seq", "kind", "at", "payload").
		Values(
			id,
			squirrel.Expr("(SELECT COALESCE(MAX(seq), 0) + 1 FROM blend_journal WHERE blend_id = ?)", id),
			kind,
			at,
			body,
		).
		Suffix("RETURNING blend_id, seq, position, kind, at, payload").
		ToSql()
	if err != nil {
		return events.Entry{}, fmt.Errorf("build journal insert: %w", err)
	}

	for attempt := 1; ; attempt++ {
		var row journalRow
		err := pgxscan.Get(ctx, r.db, &row, query, args...)
		switch {
		case err == nil:
			return row.toEntry(), nil
		case isForeignKeyViolation(err):
			return events.Entry{}, fmt.Errorf("%w: blend %s", repositories.ErrNotFound, blendID)
		case isUniqueViolation(err) && attempt < maxSeqAttempts:
			continue
		}
		return events.Entry{}, fmt.Errorf("insert journal entry: %w", err)
	}
}

// Entries returns the blend's entries with seq greater than afterSeq
func (r *JournalRepository) Entries(ctx context.Context, blendID string, afterSeq int) ([]events.Entry, error) {
	id, err := uuid.Parse(blendID)
	if err != nil {
		return nil, fmt.Errorf("journal blend id %q: %w", blendID, err)
	}
	query, args, err := psql.Select("blend_id", "seq", "position", "kind", "at", "payload").
		From("blend_journal").
		Where(squirrel.Eq{"blend_id": id}).
		Where(squirrel.Gt{"seq": afterSeq}).
		OrderBy("seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build journal select: %w", err)
	}

	var rows []journalRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select journal entries: %w", err)
	}
	entries := make([]events.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].toEntry()
	}
	return entries, nil
}
