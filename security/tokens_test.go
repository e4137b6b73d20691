package security

import (
	"testing"
	"time"

	"wrenlabs/board-api/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() *TokenService {
	return &TokenService{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	s := testTokenService()
	id := Identity{AccountID: "acc_1", Email: "alice@example.com", Role: model.RoleUser}

	access, refresh, err := s.IssuePair(id)
	require.NoError(t, err)

	got, ok := s.Verify(access, AccessToken)
	require.True(t, ok)
	assert.Equal(t, id, got)

	got, ok = s.Verify(refresh, RefreshToken)
	require.True(t, ok)
	assert.Equal(t, id, got)
}

// The two kinds are signed with different secrets, so neither can ever
// stand in for the other
func TestTokenKindsDontCross(t *testing.T) {
	s := testTokenService()
	id := Identity{AccountID: "acc_1", Email: "alice@example.com", Role: model.RoleUser}

	access, refresh, err := s.IssuePair(id)
	require.NoError(t, err)

	_, ok := s.Verify(access, RefreshToken)
	assert.False(t, ok)

	_, ok = s.Verify(refresh, AccessToken)
	assert.False(t, ok)
}

func TestTokenExpiry(t *testing.T) {
	s := testTokenService()
	s.AccessTTL = -time.Minute

	token, err := s.Issue(Identity{AccountID: "acc_1", Role: model.RoleUser}, AccessToken)
	require.NoError(t, err)

	_, ok := s.Verify(token, AccessToken)
	assert.False(t, ok)
}

func TestTokenWrongSecret(t *testing.T) {
	s := testTokenService()

	token, err := s.Issue(Identity{AccountID: "acc_1", Role: model.RoleUser}, AccessToken)
	require.NoError(t, err)

	other := testTokenService()
	other.AccessSecret = []byte("some-other-secret")

	_, ok := other.Verify(token, AccessToken)
	assert.False(t, ok)
}

func TestTokenGarbage(t *testing.T) {
	s := testTokenService()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, ok := s.Verify(tok, AccessToken)
		assert.False(t, ok, "token %q should not verify", tok)
	}
}

func TestTokenRejectsUnknownRole(t *testing.T) {
	s := testTokenService()

	token, err := s.Issue(Identity{AccountID: "acc_1", Role: "SUPERUSER"}, AccessToken)
	require.NoError(t, err)

	_, ok := s.Verify(token, AccessToken)
	assert.False(t, ok)
}
