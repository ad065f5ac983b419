package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseRoundTrip(t *testing.T) {
	ts := TokenService{
		Secret:   []byte("test-secret"),
		Issuer:   "moviweb-test",
		Duration: time.Hour,
	}

	a := &Account{ID: "acc-1", Username: "ada", TokenVersion: 3}

	token, exp, err := ts.Sign(a)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := ts.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "ada", claims.Username)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "moviweb-test", claims.Issuer)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signer := TokenService{Secret: []byte("right"), Issuer: "moviweb", Duration: time.Hour}
	verifier := TokenService{Secret: []byte("wrong"), Issuer: "moviweb", Duration: time.Hour}

	token, _, err := signer.Sign(&Account{ID: "acc-1", Username: "ada"})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ts := TokenService{Secret: []byte("test-secret"), Issuer: "moviweb", Duration: -time.Minute}

	token, _, err := ts.Sign(&Account{ID: "acc-1", Username: "ada"})
	require.NoError(t, err)

	_, err = ts.Parse(token)
	assert.Error(t, err)
}
