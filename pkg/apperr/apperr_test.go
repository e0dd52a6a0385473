package apperr

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	t.Run("business error keeps its kind through wrapping", func(t *testing.T) {
		base := NotFound(40001, "Cart not found")
		wrapped := errors.Wrap(base, "remove item")

		assert.Equal(t, KindNotFound, KindOf(wrapped))
		assert.True(t, IsKind(wrapped, KindNotFound))
		assert.ErrorIs(t, wrapped, base)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	})

	t.Run("nil has no kind", func(t *testing.T) {
		assert.Equal(t, Kind(""), KindOf(nil))
		assert.False(t, IsKind(nil, KindInternal))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("duplicate key")
	err := Wrap(cause, KindValidation, 30003, "Category with this name already exists")

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, 30003, e.Code)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "duplicate key")
}
