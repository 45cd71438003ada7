// Package moderation runs admin decisions on the moderated tables
// (contact_requests, tag_requests, reviews) inside one transaction: the row
// is locked, its transition checked, the decision trail written, and on
// approval the owning property is updated.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/FACorreiaa/farmstay-api/internal/types"
	"github.com/FACorreiaa/farmstay-api/pkg/db"
)

// Table names a moderated table.
type Table string

const (
	ContactRequests Table = "contact_requests"
	TagRequests     Table = "tag_requests"
	Reviews         Table = "reviews"
)

// Kind is the metric label for the table.
func (t Table) Kind() string {
	switch t {
	case ContactRequests:
		return "contact"
	case TagRequests:
		return "tag"
	case Reviews:
		return "review"
	default:
		return string(t)
	}
}

// ApproveFunc updates the property owning an approved record.
type ApproveFunc func(ctx context.Context, tx pgx.Tx, recordID, propertyID string) error

// Now is the decision clock.
var Now = func() time.Time { return time.Now().UTC() }

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Decide applies d to the row id of table. onApprove may be nil.
func Decide(ctx context.Context, pool db.Querier, table Table, id string, d types.ModerationDecision, onApprove ApproveFunc) (err error) {
	if err := d.Validate(); err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("database error beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	propertyID, err := lock(ctx, tx, table, id, d.Status)
	if err != nil {
		return err
	}
	if err = record(ctx, tx, table, id, d); err != nil {
		return err
	}
	if d.Status == types.StatusApproved && onApprove != nil {
		if err = onApprove(ctx, tx, id, propertyID); err != nil {
			return fmt.Errorf("applying approval to property %q: %w", propertyID, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("database error committing decision: %w", err)
	}
	return nil
}

func lock(ctx context.Context, tx pgx.Tx, table Table, id string, to types.ModerationStatus) (string, error) {
	query, args, err := psql.Select("status", "property_id").
		From(string(table)).
		Where(squirrel.Eq{"id": id}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building lock query: %w", err)
	}

	var (
		status     string
		propertyID string
	)
	if err := tx.QueryRow(ctx, query, args...).Scan(&status, &propertyID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("%s %q: %w", table.Kind(), id, types.ErrNotFound)
		}
		return "", fmt.Errorf("database error locking %s: %w", table, err)
	}

	from, err := types.ParseModerationStatus(status)
	if err != nil {
		return "", fmt.Errorf("%s %q: %w", table.Kind(), id, err)
	}
	if !types.CanModerate(from, to) {
		return "", fmt.Errorf("%s %q is %s, cannot become %s: %w", table.Kind(), id, from, to, types.ErrInvalidTransition)
	}
	return propertyID, nil
}

func record(ctx context.Context, tx pgx.Tx, table Table, id string, d types.ModerationDecision) error {
	var reviewer *string
	if d.ReviewerID != "" {
		reviewer = &d.ReviewerID
	}
	query, args, err := psql.Update(string(table)).
		Set("status", string(d.Status)).
		Set("admin_notes", d.AdminNotes).
		Set("reviewed_at", Now()).
		Set("reviewed_by", reviewer).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building decision update: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("database error recording decision: %w", err)
	}
	return nil
}
