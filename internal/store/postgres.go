package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	entrymodels "io.winapps.casportfolio/internal/models/entry"
)

// Postgres stores each entry document as a row with its media kept as JSONB
type Postgres struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

// NewPostgres wraps a pool whose schema was prepared by db.InitPostgres
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool, now: time.Now}
}

func (p *Postgres) Create(ctx context.Context, n entrymodels.NewEntry) (*entrymodels.Entry, error) {
	e := n.Build(uuid.New().String(), p.now())

	mediaJSON, err := json.Marshal(e.Media)
	if err != nil {
		return nil, fmt.Errorf("failed to encode media: %w", err)
	}

	query := `
		INSERT INTO entries (id, kind, title, description, week, created_at, entry_date, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING internal_id
	`
	var internalID int64
	err = p.pool.QueryRow(ctx, query,
		e.ID,
		string(e.Kind),
		e.Title,
		e.Description,
		e.Week,
		e.CreatedAt,
		e.EntryDate,
		string(mediaJSON),
	).Scan(&internalID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert entry: %w", err)
	}

	e.InternalID = strconv.FormatInt(internalID, 10)
	return &e, nil
}

func (p *Postgres) List(ctx context.Context, kind *entrymodels.Kind) ([]entrymodels.Entry, error) {
	query := `
		SELECT internal_id, id, kind, title, description, week, created_at, entry_date, media
		FROM entries
	`
	args := []interface{}{}
	if kind != nil {
		query += ` WHERE kind = $1`
		args = append(args, string(*kind))
	}
	query += ` ORDER BY created_at DESC, internal_id DESC`

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := []entrymodels.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows pgx.Rows) (entrymodels.Entry, error) {
	var (
		e          entrymodels.Entry
		internalID int64
		kind       string
		mediaJSON  []byte
	)
	if err := rows.Scan(
		&internalID,
		&e.ID,
		&kind,
		&e.Title,
		&e.Description,
		&e.Week,
		&e.CreatedAt,
		&e.EntryDate,
		&mediaJSON,
	); err != nil {
		return e, fmt.Errorf("failed to scan entry: %w", err)
	}

	e.InternalID = strconv.FormatInt(internalID, 10)
	e.Kind = entrymodels.Kind(kind)
	e.CreatedAt = e.CreatedAt.UTC()
	if e.EntryDate != nil {
		d := e.EntryDate.UTC()
		e.EntryDate = &d
	}
	e.Media = []entrymodels.MediaItem{}
	if len(mediaJSON) > 0 {
		if err := json.Unmarshal(mediaJSON, &e.Media); err != nil {
			return e, fmt.Errorf("failed to decode media for entry %s: %w", e.ID, err)
		}
	}
	return e, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Close(context.Context) error {
	p.pool.Close()
	return nil
}
