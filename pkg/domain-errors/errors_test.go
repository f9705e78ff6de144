package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code", func(t *testing.T) {
		err := New(CodeIntegrity, "signature mismatch")
		assert.True(t, HasCode(err, CodeIntegrity))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("nested code through fmt wrapping", func(t *testing.T) {
		inner := New(CodeNotFound, "no user")
		outer := Wrap(fmt.Errorf("lookup: %w", inner), CodeInternal, "check failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
}
