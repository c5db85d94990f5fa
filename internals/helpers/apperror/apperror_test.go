package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	base := Conflict("room is full")
	wrapped := fmt.Errorf("create booking: %w", base)

	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindConflict))
	assert.False(t, Is(nil, KindConflict))
}

func TestUnknownErrorsAreInfrastructure(t *testing.T) {
	assert.Equal(t, KindInfrastructure, KindOf(errors.New("boom")))
	assert.Equal(t, Kind(0), KindOf(nil))
}

func TestRetryableOnlyForInfrastructure(t *testing.T) {
	cause := errors.New("connection reset")
	infra := Infra("load room", cause)

	assert.True(t, infra.Retryable())
	assert.ErrorIs(t, infra, cause)
	assert.False(t, NotFound("x").Retryable())
	assert.False(t, Validation("x", nil).Retryable())
}

func TestFieldCarriesMessage(t *testing.T) {
	e := Field("reason", "reason is required")
	assert.Equal(t, []string{"reason is required"}, e.Fields["reason"])
	assert.Equal(t, "validation: reason is required", e.Error())
}
