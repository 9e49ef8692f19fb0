package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demo-credit/wallet_ledger/internal/config"
	"github.com/demo-credit/wallet_ledger/internal/identity"
)

func testConfig(secret string) config.Config {
	return config.Config{AppName: "test", JWTSecret: secret, AccessTokenTTL: time.Minute}
}

func TestLoginAndVerify(t *testing.T) {
	svc := NewService(testConfig("secret"))

	token, err := svc.Login(identity.User{ID: 42, Email: "a@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.EqualValues(t, 60, token.ExpiresIn)

	id, err := svc.Verify(token.AccessToken)
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	issuer := NewService(testConfig("one"))
	verifier := NewService(testConfig("two"))

	token, err := issuer.Login(identity.User{ID: 1})
	require.NoError(t, err)

	_, err = verifier.Verify(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService(testConfig("secret"))
	svc.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := svc.Login(identity.User{ID: 1})
	require.NoError(t, err)

	_, err = svc.Verify(token.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService(testConfig("secret"))
	_, err := svc.Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
