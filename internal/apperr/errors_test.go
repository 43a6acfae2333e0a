package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NotFound("note not found")))
	assert.Equal(t, KindAuth, KindOf(fmt.Errorf("login: %w", Auth("incorrect password"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestError_Is(t *testing.T) {
	errExpired := Auth("OTP has expired")

	assert.ErrorIs(t, fmt.Errorf("verify: %w", Auth("OTP has expired")), errExpired)
	assert.NotErrorIs(t, Auth("invalid OTP"), errExpired)
	assert.NotErrorIs(t, Validation("OTP has expired"), errExpired)
}

func TestWrap(t *testing.T) {
	cause := errors.New("smtp: 550")
	err := Wrap(KindUnavailable, "failed to send OTP email", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to send OTP email: smtp: 550", err.Error())
	assert.Equal(t, "failed to send OTP email", MessageOf(err, "internal server error"))
	assert.Equal(t, "internal server error", MessageOf(cause, "internal server error"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "CAPACITY_EXCEEDED", KindCapacity.String())
	assert.Equal(t, "VERSION_CONFLICT", KindStale.String())
	assert.Equal(t, "INTERNAL_ERROR", Kind(99).String())
}
