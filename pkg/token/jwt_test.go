package token

import (
	"testing"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestNewHS256_ShortSecret(t *testing.T) {
	_, err := NewHS256([]byte("short"), time.Hour, nil)
	assert.ErrorIs(t, err, ErrSecretTooShort)
}

func TestHS256_IssueAndVerify(t *testing.T) {
	clk := &fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	iss, err := NewHS256(testSecret, 7*24*time.Hour, clk)
	require.NoError(t, err)

	signed, issued, err := iss.Issue("acc-1")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)
	assert.Equal(t, clk.t.Add(7*24*time.Hour).Unix(), issued.ExpiresAt.Unix())

	got, err := iss.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", got.UserID)
	assert.Equal(t, issued.ID, got.ID)
}

func TestHS256_Expired(t *testing.T) {
	clk := &fixedClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	iss, err := NewHS256(testSecret, time.Hour, clk)
	require.NoError(t, err)

	signed, _, err := iss.Issue("acc-1")
	require.NoError(t, err)

	clk.t = clk.t.Add(2 * time.Hour)
	_, err = iss.Verify(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestHS256_WrongSecret(t *testing.T) {
	a, err := NewHS256(testSecret, time.Hour, nil)
	require.NoError(t, err)
	b, err := NewHS256([]byte("ffffffffffffffffffffffffffffffff"), time.Hour, nil)
	require.NoError(t, err)

	signed, _, err := a.Issue("acc-1")
	require.NoError(t, err)

	_, err = b.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHS256_RejectsOtherAlgorithms(t *testing.T) {
	iss, err := NewHS256(testSecret, time.Hour, nil)
	require.NoError(t, err)

	claims := Claims{
		RegisteredClaims: libJWT.RegisteredClaims{
			ExpiresAt: libJWT.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID: "acc-1",
	}
	signed, err := libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = iss.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHS256_Malformed(t *testing.T) {
	iss, err := NewHS256(testSecret, time.Hour, nil)
	require.NoError(t, err)

	_, err = iss.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
