package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/countries-explorer/explorer/internal/model"
)

// Common errors for favourite repository operations.
var (
	ErrFavouriteNotFound = errors.New("favourite not found")
	ErrInvalidFavourite  = errors.New("invalid favourite")
)

// WriteCheck runs inside the write transaction before a favourite is
// stored. Returning an error aborts the write. Concurrent writes to the same
// (user, country) are last-write-wins unless a check rejects them.
type WriteCheck func(ctx context.Context, tx pgx.Tx, fav *model.Favourite) error

// SetWriteCheck installs check for subsequent upserts. nil removes it.
func (r *Repository) SetWriteCheck(check WriteCheck) {
	r.writeCheck = check
}

// UpsertFavourite stores fav for its user. A favourite with the same
// country name is overwritten. ID, CreatedAt and UpdatedAt are filled from
// the stored row.
func (r *Repository) UpsertFavourite(ctx context.Context, fav *model.Favourite) error {
	if fav.UserID == "" || strings.TrimSpace(fav.CountryName) == "" {
		return ErrInvalidFavourite
	}
	if fav.ID == "" {
		fav.ID = ulid.Make().String()
	}
	now := time.Now().UTC()

	payload, err := encodeCountry(fav.Country)
	if err != nil {
		return fmt.Errorf("failed to encode country data: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.writeCheck != nil {
		if err := r.writeCheck(ctx, tx, fav); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO favourites (id, user_id, country_name, country_code, country_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, country_name) DO UPDATE
		SET country_code = EXCLUDED.country_code,
		    country_data = EXCLUDED.country_data,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		fav.ID,
		fav.UserID,
		fav.CountryName,
		nullString(fav.CountryCode),
		payload,
		now,
	).Scan(&fav.ID, &fav.CreatedAt, &fav.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert favourite: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit favourite: %w", err)
	}
	return nil
}

// DeleteFavouriteByName removes the user's favourite for countryName.
func (r *Repository) DeleteFavouriteByName(ctx context.Context, userID, countryName string) error {
	query := `DELETE FROM favourites WHERE user_id = $1 AND country_name = $2`

	result, err := r.pool.Exec(ctx, query, userID, countryName)
	if err != nil {
		return fmt.Errorf("failed to delete favourite: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrFavouriteNotFound
	}
	return nil
}

// ListFavourites returns the user's favourites, newest first.
func (r *Repository) ListFavourites(ctx context.Context, userID string) ([]model.Favourite, error) {
	query := `
		SELECT id, user_id, country_name, country_code, country_data, created_at, updated_at
		FROM favourites
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favourites: %w", err)
	}
	defer rows.Close()

	favs := []model.Favourite{}
	for rows.Next() {
		fav, err := scanFavourite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan favourite: %w", err)
		}
		favs = append(favs, fav)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating favourites: %w", err)
	}
	return favs, nil
}

// scanFavourite reads one row, normalizing legacy encodings.
func scanFavourite(row pgx.Row) (model.Favourite, error) {
	var (
		fav  model.Favourite
		code *string
		data []byte
	)
	err := row.Scan(
		&fav.ID,
		&fav.UserID,
		&fav.CountryName,
		&code,
		&data,
		&fav.CreatedAt,
		&fav.UpdatedAt,
	)
	if err != nil {
		return fav, err
	}

	fav.CountryName = NormalizeCountryName(fav.CountryName)
	if code != nil {
		fav.CountryCode = *code
	}
	fav.Country = decodeCountry(data)
	return fav, nil
}

// NormalizeCountryName unwraps names stored as a JSON object with a
// "common" field. Any other value is returned unchanged.
func NormalizeCountryName(name string) string {
	trimmed := strings.TrimSpace(name)
	if !strings.HasPrefix(trimmed, "{") {
		return name
	}
	var wrapped struct {
		Common *string `json:"common"`
	}
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err != nil || wrapped.Common == nil {
		return name
	}
	return *wrapped.Common
}

// decodeCountry returns nil for absent or malformed payloads.
func decodeCountry(data []byte) *model.Country {
	if len(data) == 0 {
		return nil
	}
	var c model.Country
	if err := json.Unmarshal(data, &c); err != nil {
		return nil
	}
	if c.Name.Common == "" {
		return nil
	}
	return &c
}

func encodeCountry(c *model.Country) ([]byte, error) {
	if c == nil {
		return nil, nil
	}
	return json.Marshal(c)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
