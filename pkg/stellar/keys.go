// Package stellar expone las operaciones de claves que usa la API (G... / S...) sobre el SDK de Stellar.
package stellar

import (
	"errors"
	"fmt"

	"github.com/stellar/go/keypair"
	"github.com/stellar/go/strkey"
)

// ErrInvalidKey strkey con longitud, versión o checksum inválido.
var ErrInvalidKey = errors.New("stellar: strkey inválida")

// Keypair par de claves en formato strkey.
type Keypair struct {
	PublicKey string // G...
	SecretKey string // S...
}

func fromFull(kp *keypair.Full) Keypair {
	return Keypair{PublicKey: kp.Address(), SecretKey: kp.Seed()}
}

// RandomKeypair genera un keypair ed25519 nuevo.
func RandomKeypair() (Keypair, error) {
	kp, err := keypair.Random()
	if err != nil {
		return Keypair{}, fmt.Errorf("stellar: generar keypair: %w", err)
	}
	return fromFull(kp), nil
}

// KeypairFromRawSeed deriva el keypair a partir de una seed de 32 bytes.
func KeypairFromRawSeed(seed []byte) (Keypair, error) {
	if len(seed) != 32 {
		return Keypair{}, ErrInvalidKey
	}
	var raw [32]byte
	copy(raw[:], seed)
	kp, err := keypair.FromRawSeed(raw)
	if err != nil {
		return Keypair{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return fromFull(kp), nil
}

// PublicKeyFromSecret deriva la clave pública G... de una secret S....
func PublicKeyFromSecret(secret string) (string, error) {
	if !ValidSecretKey(secret) {
		return "", ErrInvalidKey
	}
	kp, err := keypair.ParseFull(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return kp.Address(), nil
}

// ValidPublicKey indica si s es un account ID (G...) bien formado.
func ValidPublicKey(s string) bool {
	return strkey.IsValidEd25519PublicKey(s)
}

// ValidSecretKey indica si s es una seed (S...) bien formada.
func ValidSecretKey(s string) bool {
	return strkey.IsValidEd25519SecretSeed(s)
}
