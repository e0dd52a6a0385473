package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour, 24*time.Hour)

	t.Run("pair round trip", func(t *testing.T) {
		pair, err := m.GenerateTokenPair("u-1", true)
		require.NoError(t, err)

		claims, err := m.ParseToken(pair.Access, TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.True(t, claims.IsAdmin)
		assert.NotEmpty(t, claims.ID)

		_, err = m.ParseToken(pair.Refresh, TokenTypeRefresh)
		assert.NoError(t, err)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		pair, err := m.GenerateTokenPair("u-1", false)
		require.NoError(t, err)

		_, err = m.ParseToken(pair.Refresh, TokenTypeAccess)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("expired", func(t *testing.T) {
		past := NewTokenManager(testSecret, time.Minute, time.Minute)
		past.now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, _, err := past.GenerateAccessToken("u-1", false)
		require.NoError(t, err)

		_, err = m.ParseToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})

	t.Run("other secret", func(t *testing.T) {
		other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour, time.Hour)
		token, _, err := other.GenerateAccessToken("u-1", false)
		require.NoError(t, err)

		_, err = m.ParseToken(token, TokenTypeAccess)
		assert.Error(t, err)
	})
}

func TestPagination(t *testing.T) {
	p := Pagination{Page: 3, Limit: 500}
	offset, limit := p.GetPageOffset()
	assert.Equal(t, 200, offset)
	assert.Equal(t, 100, limit)

	p = Pagination{}
	offset, limit = p.GetPageOffset()
	assert.Equal(t, 0, offset)
	assert.Equal(t, 10, limit)
}
