package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/apperr"
	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/models"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

// anyArgs matches n bound arguments whose values the test does not care about.
func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperr.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, apperr.ErrDuplicate},
		{"foreign key", &pgconn.PgError{Code: "23503"}, apperr.ErrForeignKey},
		{"check", &pgconn.PgError{Code: "23514"}, apperr.ErrValidation},
		{"bad text", &pgconn.PgError{Code: "22P02"}, apperr.ErrParse},
		{"wrapped unique", fmt.Errorf("exec: %w", &pgconn.PgError{Code: "23505"}), apperr.ErrDuplicate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := classify(tt.err, "op")
			require.ErrorIs(t, got, tt.want)
			assert.Contains(t, got.Error(), "op: ")
		})
	}
}

func TestClassify_PassThrough(t *testing.T) {
	t.Parallel()

	assert.NoError(t, classify(nil, "op"))

	got := classify(context.Canceled, "op")
	require.ErrorIs(t, got, context.Canceled)
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(got))

	got = classify(&pgconn.PgError{Code: "40P01"}, "op")
	assert.Equal(t, apperr.KindUpstream, apperr.KindOf(got))
}

func TestLikePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", likePattern("   "))
	assert.Equal(t, "%leave%", likePattern(" leave "))
	assert.Equal(t, `%50\% off\_now\\%`, likePattern(`50% off_now\`))
}

func TestMembershipStore_AddMember(t *testing.T) {
	t.Parallel()

	communityID := uuid.New()

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "inserted"},
		{name: "duplicate", dbErr: &pgconn.PgError{Code: "23505"}, wantErr: apperr.ErrDuplicate},
		{name: "unknown community", dbErr: &pgconn.PgError{Code: "23503"}, wantErr: apperr.ErrForeignKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock := newMock(t)
			exp := mock.ExpectExec(`INSERT INTO community_members`).WithArgs(communityID, "user-1")
			if tt.dbErr != nil {
				exp.WillReturnError(tt.dbErr)
			} else {
				exp.WillReturnResult(pgxmock.NewResult("INSERT", 1))
			}

			err := NewMembershipStore(mock).AddMember(context.Background(), communityID, "user-1")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMembershipStore_IsMember(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	communityID := uuid.New()
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(communityID, "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewMembershipStore(mock).IsMember(context.Background(), communityID, "user-1")

	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipStore_RemoveMember_MissingRowIsFine(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	communityID := uuid.New()
	mock.ExpectExec(`DELETE FROM community_members`).
		WithArgs(communityID, "user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := NewMembershipStore(mock).RemoveMember(context.Background(), communityID, "user-1")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideStore_Get_NotFound(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`FROM guides`).
		WithArgs("missing", "missing", "missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := NewGuideStore(mock).Get(context.Background(), "missing", false)

	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideStore_Update_NoRows(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	// Eight column values, then the id.
	args := append(anyArgs(8), "gone")
	mock.ExpectExec(`UPDATE guides SET`).
		WithArgs(args...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := NewGuideStore(mock).Update(context.Background(), "gone", models.GuideInput{Title: "t", Status: "Draft"})

	require.ErrorIs(t, err, apperr.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGuideStore_Create_DuplicateSlug(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	mock.ExpectQuery(`INSERT INTO guides`).
		WithArgs(anyArgs(8)...).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "guides_slug_key"})

	slug := "leave-policy"
	_, err := NewGuideStore(mock).Create(context.Background(), models.GuideInput{Slug: &slug, Title: "Leave", Status: "Draft"})

	require.ErrorIs(t, err, apperr.ErrDuplicate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchStore_PassesArgumentsPositionally(t *testing.T) {
	t.Parallel()

	mock := newMock(t)
	now := time.Now()
	more := true
	cursor := "MjA="
	after := "MTA="

	args := models.GuideSearchArgs{
		Query:     "leave",
		Domains:   []string{"HR"},
		Types:     []string{},
		Functions: []string{},
		Status:    "Approved",
		Sort:      "downloads",
		Limit:     2,
		After:     &after,
	}

	cols := []string{
		"id", "slug", "title", "summary", "domain", "guide_type", "function_area",
		"status", "download_count", "created_at", "updated_at", "has_more", "cursor",
	}
	mock.ExpectQuery(`FROM search_guides\(\$1, \$2, \$3, \$4, \$5, \$6, \$7, \$8\)`).
		WithArgs(args.Query, args.Domains, args.Types, args.Functions, args.Status, args.Sort, args.Limit, args.After).
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow("g1", nil, "Leave policy", "", nil, nil, nil, "Approved", int64(10), now, now, nil, nil).
			AddRow("g2", nil, "Sick leave", "", nil, nil, nil, "Approved", int64(3), now, now, &more, &cursor))

	rows, err := NewSearchStore(mock).SearchGuides(context.Background(), args)

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "g1", rows[0].ID)
	assert.Nil(t, rows[0].HasMore)
	require.NotNil(t, rows[1].HasMore)
	assert.True(t, *rows[1].HasMore)
	require.NotNil(t, rows[1].Cursor)
	assert.Equal(t, "MjA=", *rows[1].Cursor)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditStore_ListByItem_Cursor(t *testing.T) {
	t.Parallel()

	cols := []string{"id", "item_id", "action", "summary", "changes", "actor_id", "created_at"}
	now := time.Now()

	t.Run("first page", func(t *testing.T) {
		t.Parallel()

		mock := newMock(t)
		mock.ExpectQuery(`FROM catalog_item_versions`).
			WithArgs("g1", 10).
			WillReturnRows(pgxmock.NewRows(cols).
				AddRow(int64(7), "g1", "update", "updated title", map[string]any{"title": "x"}, "admin", now))

		records, err := NewAuditStore(mock).ListByItem(context.Background(), "g1", 0, 10)

		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, int64(7), records[0].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("before id", func(t *testing.T) {
		t.Parallel()

		mock := newMock(t)
		mock.ExpectQuery(`id < \$2`).
			WithArgs("g1", int64(7), 10).
			WillReturnRows(pgxmock.NewRows(cols))

		records, err := NewAuditStore(mock).ListByItem(context.Background(), "g1", 7, 10)

		require.NoError(t, err)
		assert.Empty(t, records)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTxManager_RunInTx(t *testing.T) {
	t.Parallel()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()

		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM guides`).WithArgs("g1").WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectCommit()

		store := NewGuideStore(mock)
		err := NewTxManager(mock).RunInTx(context.Background(), func(ctx context.Context) error {
			return store.Delete(ctx, "g1")
		})

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		t.Parallel()

		mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("audit failed")
		err := NewTxManager(mock).RunInTx(context.Background(), func(context.Context) error {
			return boom
		})

		require.ErrorIs(t, err, boom)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
