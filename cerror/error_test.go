package cerror_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/velutils/climb/cerror"
)

func TestKind(t *testing.T) {
	err := cerror.Kind(cerror.ErrInvalidConfig, "Precision must be in (0, 1], got %v", 2)
	assert.EqualError(t, err, "invalid config: Precision must be in (0, 1], got 2")
	assert.ErrorIs(t, err, cerror.ErrInvalidConfig)
	assert.NotErrorIs(t, err, cerror.ErrCorruptRecording)

	wrapped := fmt.Errorf("load: %w", err)
	assert.ErrorIs(t, wrapped, cerror.ErrInvalidConfig)
	var ce *cerror.ClimbError
	assert.True(t, errors.As(wrapped, &ce))
}

func TestNew(t *testing.T) {
	err := cerror.New("event %d", 3)
	assert.EqualError(t, err, "event 3")
	assert.Nil(t, errors.Unwrap(err))
}
