package stellar_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vero-api/pkg/stellar"
)

// Par publicado en los tests del SDK de Stellar.
const (
	knownSeed    = "SDHOAMBNLGCE2MV5ZKIVZAQD3VCLGP53P3OBSBI6UN5L5XZI5TKHFQL4"
	knownAddress = "GBRPYHIL2CI3FNQ4BXLFMNDLFJUNPU2HY3ZMFSHONUCEOASW7QC7OX2H"
	knownRawSeed = "cee0302d59844d32bdca915c8203dd44b33fbb7edc19051ea37abedf28ecd472"
)

func TestPublicKeyFromSecret_VectorConocido(t *testing.T) {
	pub, err := stellar.PublicKeyFromSecret(knownSeed)
	require.NoError(t, err)
	assert.Equal(t, knownAddress, pub)
}

func TestKeypairFromRawSeed_VectorConocido(t *testing.T) {
	raw, err := hex.DecodeString(knownRawSeed)
	require.NoError(t, err)

	kp, err := stellar.KeypairFromRawSeed(raw)
	require.NoError(t, err)
	assert.Equal(t, knownAddress, kp.PublicKey)
	assert.Equal(t, knownSeed, kp.SecretKey)

	_, err = stellar.KeypairFromRawSeed([]byte{1, 2, 3})
	assert.ErrorIs(t, err, stellar.ErrInvalidKey)
}

func TestRandomKeypair_Formato(t *testing.T) {
	kp, err := stellar.RandomKeypair()
	require.NoError(t, err)

	assert.Len(t, kp.PublicKey, 56)
	assert.Len(t, kp.SecretKey, 56)
	assert.True(t, strings.HasPrefix(kp.PublicKey, "G"))
	assert.True(t, strings.HasPrefix(kp.SecretKey, "S"))

	pub, err := stellar.PublicKeyFromSecret(kp.SecretKey)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, pub)
}

func TestValidacion_VersionYChecksum(t *testing.T) {
	assert.True(t, stellar.ValidPublicKey(knownAddress))
	assert.True(t, stellar.ValidSecretKey(knownSeed))

	// versión cruzada
	assert.False(t, stellar.ValidPublicKey(knownSeed))
	assert.False(t, stellar.ValidSecretKey(knownAddress))

	// un carácter alterado invalida el CRC16
	b := []byte(knownAddress)
	b[10] = 'A'
	assert.False(t, stellar.ValidPublicKey(string(b)))
	assert.False(t, stellar.ValidPublicKey("G123"))

	_, err := stellar.PublicKeyFromSecret(knownAddress)
	assert.ErrorIs(t, err, stellar.ErrInvalidKey)
}
