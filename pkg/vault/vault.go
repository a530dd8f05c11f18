// Package vault cifra secretos en reposo (secret keys Stellar de los usuarios) con AES-256-GCM.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// ErrDecrypt clave incorrecta o dato alterado.
var ErrDecrypt = errors.New("vault: no se pudo descifrar (clave incorrecta o dato alterado)")

// Sealer cifra y descifra strings. Con clave vacía opera en modo deshabilitado y rechaza cifrar.
type Sealer struct {
	gcm cipher.AEAD
}

// New construye el sealer a partir de una clave de 32 bytes en hex. hexKey vacío => sealer deshabilitado.
func New(hexKey string) (*Sealer, error) {
	if hexKey == "" {
		return &Sealer{}, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("vault: clave hex inválida: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("vault: la clave debe tener 32 bytes, tiene %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Sealer{gcm: gcm}, nil
}

// Enabled indica si hay clave configurada.
func (s *Sealer) Enabled() bool { return s != nil && s.gcm != nil }

// Seal cifra plaintext y devuelve hex(nonce || ciphertext).
func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("vault: VAULT_KEY no configurada")
	}
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Open revierte Seal.
func (s *Sealer) Open(cipherHex string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("vault: VAULT_KEY no configurada")
	}
	raw, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", ErrDecrypt
	}
	ns := s.gcm.NonceSize()
	if len(raw) < ns {
		return "", ErrDecrypt
	}
	plain, err := s.gcm.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
