package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NotFound("conversation missing")
		assert.Equal(t, "conversation missing", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(cause, ErrCodeInternal, "query failed")
		assert.Equal(t, "query failed: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrCodeInternal, "nope"))
	assert.Nil(t, Wrapf(nil, ErrCodeInternal, "nope %d", 1))
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		err   error
		check func(error) bool
	}{
		{NotFound("x"), IsNotFound},
		{Conflict("x"), IsConflict},
		{Validation("x"), IsValidation},
		{ForeignKey("x"), IsForeignKey},
		{Unauthorized("x"), IsUnauthorized},
		{Unavailable("x"), IsUnavailable},
		{Busy("x"), IsBusy},
		{Internal("x"), IsInternal},
	}

	for _, tt := range tests {
		assert.True(t, tt.check(tt.err), "%v", tt.err)
		// Predicates see through wrapping.
		assert.True(t, tt.check(fmt.Errorf("outer: %w", tt.err)))
	}

	assert.False(t, IsNotFound(Conflict("x")))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeBusy, GetCode(Busy("full")))
	assert.Equal(t, ErrCodeNotFound, GetCode(fmt.Errorf("wrapped: %w", NotFound("x"))))
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
}

func TestGetField(t *testing.T) {
	assert.Equal(t, "sender_id", GetField(ValidationField("sender_id", "bad")))
	assert.Equal(t, "", GetField(Validation("bad")))
	assert.Equal(t, "", GetField(errors.New("plain")))
}
