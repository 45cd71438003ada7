package moderation

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/farmstay-api/internal/types"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupDecideTest(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	prev := Now
	Now = func() time.Time { return fixedNow }
	t.Cleanup(func() { Now = prev })
	return mock
}

const (
	lockSQL   = "SELECT status, property_id FROM contact_requests WHERE id = $1 FOR UPDATE"
	recordSQL = "UPDATE contact_requests SET status = $1, admin_notes = $2, reviewed_at = $3, reviewed_by = $4 WHERE id = $5"
)

func TestDecide_Approve(t *testing.T) {
	mock := setupDecideTest(t)
	ctx := context.Background()
	notes := "verified by phone"
	reviewer := "admin-1"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockSQL)).
		WithArgs("cr-1").
		WillReturnRows(mock.NewRows([]string{"status", "property_id"}).AddRow("pending", "farm-feast"))
	mock.ExpectExec(regexp.QuoteMeta(recordSQL)).
		WithArgs("approved", &notes, fixedNow, &reviewer, "cr-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE properties SET contact_approved = TRUE")).
		WithArgs("farm-feast").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	var gotRecord, gotProperty string
	err := Decide(ctx, mock, ContactRequests, "cr-1", types.ModerationDecision{
		Status: types.StatusApproved, AdminNotes: &notes, ReviewerID: reviewer,
	}, func(ctx context.Context, tx pgx.Tx, recordID, propertyID string) error {
		gotRecord, gotProperty = recordID, propertyID
		_, err := tx.Exec(ctx, "UPDATE properties SET contact_approved = TRUE WHERE id = $1", propertyID)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "cr-1", gotRecord)
	assert.Equal(t, "farm-feast", gotProperty)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_RejectSkipsApproveHook(t *testing.T) {
	mock := setupDecideTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockSQL)).
		WithArgs("cr-2").
		WillReturnRows(mock.NewRows([]string{"status", "property_id"}).AddRow("pending", "farm-oxygen"))
	mock.ExpectExec(regexp.QuoteMeta(recordSQL)).
		WithArgs("rejected", (*string)(nil), fixedNow, (*string)(nil), "cr-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	called := false
	err := Decide(context.Background(), mock, ContactRequests, "cr-2",
		types.ModerationDecision{Status: types.StatusRejected},
		func(context.Context, pgx.Tx, string, string) error { called = true; return nil })
	require.NoError(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_TerminalStatusIsRejected(t *testing.T) {
	mock := setupDecideTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockSQL)).
		WithArgs("cr-3").
		WillReturnRows(mock.NewRows([]string{"status", "property_id"}).AddRow("approved", "farm-feast"))
	mock.ExpectRollback()

	err := Decide(context.Background(), mock, ContactRequests, "cr-3",
		types.ModerationDecision{Status: types.StatusRejected}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_NotFound(t *testing.T) {
	mock := setupDecideTest(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockSQL)).WithArgs("missing").WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	err := Decide(context.Background(), mock, ContactRequests, "missing",
		types.ModerationDecision{Status: types.StatusApproved}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_ApproveHookFailureRollsBack(t *testing.T) {
	mock := setupDecideTest(t)
	hookErr := errors.New("property gone")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(lockSQL)).
		WithArgs("cr-4").
		WillReturnRows(mock.NewRows([]string{"status", "property_id"}).AddRow("pending", "farm-feast"))
	mock.ExpectExec(regexp.QuoteMeta(recordSQL)).
		WithArgs("approved", (*string)(nil), fixedNow, (*string)(nil), "cr-4").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectRollback()

	err := Decide(context.Background(), mock, ContactRequests, "cr-4",
		types.ModerationDecision{Status: types.StatusApproved},
		func(context.Context, pgx.Tx, string, string) error { return hookErr })
	require.Error(t, err)
	assert.ErrorIs(t, err, hookErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDecide_InvalidDecisionNeverOpensTransaction(t *testing.T) {
	mock := setupDecideTest(t)

	err := Decide(context.Background(), mock, Reviews, "r-1",
		types.ModerationDecision{Status: types.StatusPending}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrBadRequest)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTable_Kind(t *testing.T) {
	assert.Equal(t, "contact", ContactRequests.Kind())
	assert.Equal(t, "tag", TagRequests.Kind())
	assert.Equal(t, "review", Reviews.Kind())
}
