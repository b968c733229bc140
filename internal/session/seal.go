package session

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

var errSealCorrupt = errors.New("sealed credential is corrupt")

// deriveKey expands the configured secret into an independent key per
// purpose, so the cookie signer and the credential sealer never share bytes.
func deriveKey(secret []byte, purpose string) ([32]byte, error) {
	var key [32]byte
	reader := hkdf.New(sha256.New, secret, []byte("kasirweb"), []byte(purpose))
	if _, err := io.ReadFull(reader, key[:]); err != nil {
		return key, err
	}
	return key, nil
}

func seal(key *[32]byte, plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", err
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, key)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

func unseal(key *[32]byte, sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", errSealCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, key)
	if !ok {
		return "", errSealCorrupt
	}
	return string(plain), nil
}
