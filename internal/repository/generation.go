package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inkwell/inkwell/internal/model"
)

// Common errors for generation repository operations.
var (
	ErrGenerationNotFound = errors.New("generation not found")
	ErrInvalidCursor      = errors.New("invalid pagination cursor")
)

// InsufficientCreditsError reports a debit that would overdraw the balance.
// The balance is left unchanged when this is returned.
type InsufficientCreditsError struct {
	Required  int
	Available int
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: required %d, available %d", e.Required, e.Available)
}

// PaginationCursor represents decoded cursor for pagination.
type PaginationCursor struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateGenerationPaid debits the user's balance and appends the
// generation record in a single transaction. Either both persist or
// neither does. The conditional UPDATE takes a row lock on the user,
// so concurrent debits for the same user serialize here and can never
// overdraw the balance; different users touch different rows and don't
// contend. Returns the post-debit balance.
func (r *Repository) CreateGenerationPaid(ctx context.Context, gen *model.Generation) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	debit := `
		UPDATE users
		SET credits = credits - $2
		WHERE id = $1 AND credits >= $2
		RETURNING credits
	`

	var remaining int
	err = tx.QueryRow(ctx, debit, gen.UserID, gen.Credits).Scan(&remaining)
	if errors.Is(err, pgx.ErrNoRows) {
		// Zero rows means the user is missing or the balance is short.
		// Distinguish inside the same transaction.
		var available int
		lookupErr := tx.QueryRow(ctx, `SELECT credits FROM users WHERE id = $1`, gen.UserID).Scan(&available)
		if errors.Is(lookupErr, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		if lookupErr != nil {
			return 0, fmt.Errorf("failed to read balance: %w", lookupErr)
		}
		return 0, &InsufficientCreditsError{Required: gen.Credits, Available: available}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to debit credits: %w", err)
	}

	insert := `
		INSERT INTO generations (id, user_id, prompt, model, credits, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err = tx.Exec(ctx, insert,
		gen.ID,
		gen.UserID,
		gen.Prompt,
		gen.Model,
		gen.Credits,
		gen.ImageURL,
		gen.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert generation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit generation: %w", err)
	}

	return remaining, nil
}

// GetGenerationByID retrieves a generation record by its ID.
func (r *Repository) GetGenerationByID(ctx context.Context, id string) (*model.Generation, error) {
	query := `
		SELECT id, user_id, prompt, model, credits, image_url, created_at
		FROM generations
		WHERE id = $1
	`

	gen, err := scanGeneration(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to get generation by ID: %w", err)
	}

	return gen, nil
}

// ListGenerations retrieves a page of a user's generation records,
// newest first. Ordering is (created_at DESC, id DESC); ULID ids make
// the tiebreak stable for same-timestamp rows. Fetches limit+1 rows;
// when the extra row comes back the page is full and nextCursor points
// at the last returned record.
func (r *Repository) ListGenerations(ctx context.Context, userID, cursor string, limit int) ([]*model.Generation, string, error) {
	var cursorData *PaginationCursor
	if cursor != "" {
		var err error
		cursorData, err = decodeCursor(cursor)
		if err != nil {
			return nil, "", ErrInvalidCursor
		}
	}

	query := `
		SELECT id, user_id, prompt, model, credits, image_url, created_at
		FROM generations
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if cursorData != nil {
		query += fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIndex, argIndex+1)
		args = append(args, cursorData.CreatedAt, cursorData.ID)
		argIndex += 2
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", argIndex)
	args = append(args, limit+1) // Fetch one extra to determine hasMore

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	var gens []*model.Generation
	for rows.Next() {
		gen, err := scanGeneration(rows)
		if err != nil {
			return nil, "", fmt.Errorf("failed to scan generation: %w", err)
		}
		gens = append(gens, gen)
	}

	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("error iterating generations: %w", err)
	}

	var nextCursor string
	if len(gens) > limit {
		gens = gens[:limit] // Remove extra row
		last := gens[len(gens)-1]
		nextCursor = encodeCursor(&PaginationCursor{
			ID:        last.ID,
			CreatedAt: last.CreatedAt,
		})
	}

	return gens, nextCursor, nil
}

// CountGenerations returns the number of generation records for a user.
func (r *Repository) CountGenerations(ctx context.Context, userID string) (int64, error) {
	query := `SELECT COUNT(*) FROM generations WHERE user_id = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count generations: %w", err)
	}

	return count, nil
}

// scanGeneration scans a row into a Generation model.
func scanGeneration(row pgx.Row) (*model.Generation, error) {
	var gen model.Generation
	err := row.Scan(
		&gen.ID,
		&gen.UserID,
		&gen.Prompt,
		&gen.Model,
		&gen.Credits,
		&gen.ImageURL,
		&gen.CreatedAt,
	)
	return &gen, err
}

// encodeCursor encodes pagination cursor to base64.
func encodeCursor(cursor *PaginationCursor) string {
	data, _ := json.Marshal(cursor)
	return base64.URLEncoding.EncodeToString(data)
}

// decodeCursor decodes base64 pagination cursor.
func decodeCursor(s string) (*PaginationCursor, error) {
	data, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}

	var cursor PaginationCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}
