package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := internalErr("failed to load order", cause)

	assert.Equal(t, KindInternal, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load order: pq: connection reset", err.Error())

	wrapped := fmt.Errorf("placing: %w", validationErr("item %d: quantity must be at least 1", 2))
	assert.True(t, IsKind(wrapped, KindValidation))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, IsKind(nil, KindInternal))
}
