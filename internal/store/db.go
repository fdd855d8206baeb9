package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

var nameCaser = cases.Title(language.English)

type Restaurant struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Website       string     `json:"website,omitempty"`
	PlaceID       string     `json:"place_id,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastScrapedAt *time.Time `json:"last_scraped_at,omitempty"`
}

func (s *Store) ListRestaurants(ctx context.Context, limit, offset int) ([]Restaurant, int, error) {
	limit = clampLimit(limit, 20, 200)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM restaurants`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, COALESCE(website, ''), COALESCE(place_id, ''), created_at, last_scraped_at
FROM restaurants
ORDER BY name ASC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var restaurants []Restaurant
	for rows.Next() {
		var (
			r           Restaurant
			lastScraped sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Website, &r.PlaceID, &r.CreatedAt, &lastScraped); err != nil {
			return nil, 0, err
		}
		if lastScraped.Valid {
			t := lastScraped.Time
			r.LastScrapedAt = &t
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, total, rows.Err()
}

func (s *Store) GetRestaurant(ctx context.Context, id int) (Restaurant, error) {
	var (
		r           Restaurant
		lastScraped sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, COALESCE(website, ''), COALESCE(place_id, ''), created_at, last_scraped_at
FROM restaurants
WHERE id = $1
`, id).Scan(&r.ID, &r.Name, &r.Website, &r.PlaceID, &r.CreatedAt, &lastScraped)
	if err != nil {
		return Restaurant{}, err
	}
	if lastScraped.Valid {
		t := lastScraped.Time
		r.LastScrapedAt = &t
	}
	return r, nil
}

// AddRestaurant upserts by name. Display names are title-cased on the way
// in so "green leaf deli" and "Green Leaf Deli" land on the same row.
func (s *Store) AddRestaurant(ctx context.Context, name, website, placeID string) (int, bool, error) {
	name = nameCaser.String(strings.TrimSpace(name))

	var (
		id       int
		inserted bool
	)
	err := s.db.QueryRowContext(ctx, `
INSERT INTO restaurants (name, website, place_id, created_at)
VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NOW())
ON CONFLICT (name) DO UPDATE SET
    website = COALESCE(NULLIF(EXCLUDED.website, ''), restaurants.website),
    place_id = COALESCE(NULLIF(EXCLUDED.place_id, ''), restaurants.place_id)
RETURNING id, (xmax = 0)
`, name, website, placeID).Scan(&id, &inserted)
	if err != nil {
		return 0, false, err
	}
	return id, !inserted, nil
}

func (s *Store) MarkRestaurantScraped(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `
UPDATE restaurants
SET last_scraped_at = NOW()
WHERE id = $1
`, id)
	return err
}

// ListStaleRestaurants returns restaurants with a website that have never
// been scraped or were last scraped before the staleness window.
func (s *Store) ListStaleRestaurants(ctx context.Context, staleAfter time.Duration, limit int) ([]Restaurant, error) {
	limit = clampLimit(limit, 50, 200)
	cutoff := time.Now().Add(-staleAfter)

	rows, err := s.db.QueryContext(ctx, `
SELECT id, name, COALESCE(website, ''), COALESCE(place_id, ''), created_at, last_scraped_at
FROM restaurants
WHERE website IS NOT NULL
  AND (last_scraped_at IS NULL OR last_scraped_at < $1)
ORDER BY last_scraped_at NULLS FIRST
LIMIT $2
`, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []Restaurant
	for rows.Next() {
		var (
			r           Restaurant
			lastScraped sql.NullTime
		)
		if err := rows.Scan(&r.ID, &r.Name, &r.Website, &r.PlaceID, &r.CreatedAt, &lastScraped); err != nil {
			return nil, err
		}
		if lastScraped.Valid {
			t := lastScraped.Time
			r.LastScrapedAt = &t
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

func (s *Store) GetMenuCache(ctx context.Context, key string) ([]byte, time.Time, error) {
	var (
		payload []byte
		ts      time.Time
	)
	err := s.db.QueryRowContext(ctx, `
SELECT items, ts FROM menu_cache WHERE key = $1
`, key).Scan(&payload, &ts)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, ts, nil
}

func (s *Store) PutMenuCache(ctx context.Context, key string, payload []byte) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO menu_cache (key, items, ts)
VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET
    items = EXCLUDED.items,
    ts = NOW()
`, key, payload)
	return err
}

func (s *Store) DeleteExpiredMenuCache(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.db.ExecContext(ctx, `
DELETE FROM menu_cache
WHERE ts < $1
`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
