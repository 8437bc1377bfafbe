package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"poe-overlay/internal/item"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps entries in the parsed_items table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on an open pool. The table is created by
// db.RunMigrations.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Load returns the entry of hash, or ErrMiss.
func (s *PostgresStore) Load(ctx context.Context, hash string) (Entry, error) {
	var (
		lang    string
		raw     []byte
		expires *time.Time
	)
	err := s.pool.QueryRow(ctx,
		`SELECT language, item, expires_at FROM parsed_items
		 WHERE hash = $1 AND (expires_at IS NULL OR expires_at > now())`, hash,
	).Scan(&lang, &raw, &expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrMiss
		}
		return Entry{}, fmt.Errorf("querying cached item: %w", err)
	}
	return decodeEntry(lang, raw, expires)
}

// Save upserts the entry of hash.
func (s *PostgresStore) Save(ctx context.Context, hash string, e Entry) error {
	raw, err := json.Marshal(e.Item)
	if err != nil {
		return fmt.Errorf("encoding cached item: %w", err)
	}
	var expires *time.Time
	if !e.ExpiresAt.IsZero() {
		expires = &e.ExpiresAt
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO parsed_items (hash, language, item, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (hash) DO UPDATE
		 SET language = EXCLUDED.language, item = EXCLUDED.item, expires_at = EXCLUDED.expires_at`,
		hash, e.Language, raw, expires,
	)
	if err != nil {
		return fmt.Errorf("upserting cached item: %w", err)
	}
	return nil
}

// LoadAll returns every live entry.
func (s *PostgresStore) LoadAll(ctx context.Context) (map[string]Entry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT hash, language, item, expires_at FROM parsed_items
		 WHERE expires_at IS NULL OR expires_at > now()`)
	if err != nil {
		return nil, fmt.Errorf("listing cached items: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Entry)
	for rows.Next() {
		var (
			hash, lang string
			raw        []byte
			expires    *time.Time
		)
		if err := rows.Scan(&hash, &lang, &raw, &expires); err != nil {
			return nil, fmt.Errorf("scanning cached item: %w", err)
		}
		e, err := decodeEntry(lang, raw, expires)
		if err != nil {
			return nil, err
		}
		out[hash] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing cached items: %w", err)
	}
	return out, nil
}

// Purge deletes expired entries and returns how many were removed.
func (s *PostgresStore) Purge(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM parsed_items WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("purging cached items: %w", err)
	}
	return tag.RowsAffected(), nil
}

func decodeEntry(lang string, raw []byte, expires *time.Time) (Entry, error) {
	var it item.Item
	if err := json.Unmarshal(raw, &it); err != nil {
		return Entry{}, fmt.Errorf("decoding cached item: %w", err)
	}
	e := Entry{Language: lang, Item: &it}
	if expires != nil {
		e.ExpiresAt = *expires
	}
	return e, nil
}
