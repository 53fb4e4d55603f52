package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pasarkita/pasar-backend/internal/account"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("secret", time.Hour, Identity{UserID: "user-1", Role: account.RoleConsumer})
	require.NoError(t, err)

	id, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, account.RoleConsumer, id.Role)
}

func TestParseToken_Rejections(t *testing.T) {
	good, err := IssueToken("secret", time.Hour, Identity{UserID: "user-1", Role: account.RoleConsumer})
	require.NoError(t, err)

	expired, err := IssueToken("secret", -time.Minute, Identity{UserID: "user-1", Role: account.RoleConsumer})
	require.NoError(t, err)

	noSubject, err := IssueToken("secret", time.Hour, Identity{Role: account.RoleConsumer})
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		raw    string
	}{
		{name: "wrong secret", secret: "other", raw: good},
		{name: "expired", secret: "secret", raw: expired},
		{name: "empty subject", secret: "secret", raw: noSubject},
		{name: "garbage", secret: "secret", raw: "not.a.token"},
		{name: "empty", secret: "secret", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
