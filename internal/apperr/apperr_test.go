package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"classified error", New(KindForeignKey, "invalid community or user", nil), KindForeignKey},
		{"wrapped classified error", fmt.Errorf("join: %w", New(KindUnauthorized, "sign in", nil)), KindUnauthorized},
		{"wrapped sentinel", fmt.Errorf("insert member: %w", ErrDuplicate), KindDuplicate},
		{"not found sentinel", ErrNotFound, KindNotFound},
		{"parse sentinel", ErrParse, KindParse},
		{"unknown error", errors.New("connection reset"), KindUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestKind_Status(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusUnauthorized, KindUnauthorized.Status())
	assert.Equal(t, http.StatusNotFound, KindNotFound.Status())
	assert.Equal(t, http.StatusBadRequest, KindForeignKey.Status())
	assert.Equal(t, http.StatusBadRequest, KindParse.Status())
	assert.Equal(t, http.StatusInternalServerError, KindUpstream.Status())
}

func TestMessage_NeverLeaksCause(t *testing.T) {
	t.Parallel()

	cause := errors.New(`pq: relation "community_members" does not exist`)

	assert.Equal(t, "failed to join community", Message(New(KindUpstream, "failed to join community", cause), "x"))
	assert.Equal(t, "Server error", Message(cause, "Server error"))
}

func TestError_Unwrap(t *testing.T) {
	t.Parallel()

	err := New(KindDuplicate, "already a member", ErrDuplicate)

	assert.True(t, errors.Is(err, ErrDuplicate))
}
