package vault_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/pkg/vault"
)

var testKey = strings.Repeat("ab", 32)

func TestSealOpen_RoundTrip(t *testing.T) {
	s, err := vault.New(testKey)
	require.NoError(t, err)
	require.True(t, s.Enabled())

	sealed, err := s.Seal("SBXXSECRET")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "SBXXSECRET")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "SBXXSECRET", plain)
}

func TestSeal_NonceDistinto(t *testing.T) {
	s, err := vault.New(testKey)
	require.NoError(t, err)
	a, _ := s.Seal("x")
	b, _ := s.Seal("x")
	assert.NotEqual(t, a, b)
}

func TestOpen_ClaveIncorrecta(t *testing.T) {
	s1, _ := vault.New(testKey)
	s2, _ := vault.New(strings.Repeat("cd", 32))
	sealed, err := s1.Seal("secreto")
	require.NoError(t, err)

	_, err = s2.Open(sealed)
	assert.ErrorIs(t, err, vault.ErrDecrypt)
}

func TestNew_ClaveInvalida(t *testing.T) {
	_, err := vault.New("zz")
	assert.Error(t, err)
	_, err = vault.New("abcd")
	assert.Error(t, err)
}

func TestDeshabilitado(t *testing.T) {
	s, err := vault.New("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	_, err = s.Seal("x")
	assert.Error(t, err)
}
