package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// EncryptedField is the stored form of an encrypted value. The IV and the
// ciphertext travel together so every field is independently decryptable.
type EncryptedField struct {
	IV      string `json:"iv"`
	Content string `json:"content"`
}

// IsZero reports whether the field holds no ciphertext at all.
func (f EncryptedField) IsZero() bool { return f.IV == "" && f.Content == "" }

// FieldCipher encrypts individual record fields with AES-256-CBC. A fresh
// random IV is used per encryption, so encrypting the same value twice yields
// different ciphertexts.
type FieldCipher struct {
	key []byte
}

// NewFieldCipher derives a 32-byte AES-256 key from the given secret using
// SHA-256. The secret must not be empty; deployments are expected to refuse
// to start without one.
func NewFieldCipher(secret string) (*FieldCipher, error) {
	if secret == "" {
		return nil, errors.New("cryptox: field cipher secret must not be empty")
	}
	sum := sha256.Sum256([]byte(secret))
	return &FieldCipher{key: sum[:]}, nil
}

// Encrypt encrypts a plaintext string. Empty plaintext is passed through as a
// zero EncryptedField so optional fields stay optional in storage.
func (c *FieldCipher) Encrypt(plain string) (EncryptedField, error) {
	if plain == "" {
		return EncryptedField{}, nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return EncryptedField{}, fmt.Errorf("cryptox: create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return EncryptedField{}, fmt.Errorf("cryptox: generate iv: %w", err)
	}

	padded := padPKCS7([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return EncryptedField{
		IV:      base64.StdEncoding.EncodeToString(iv),
		Content: base64.StdEncoding.EncodeToString(out),
	}, nil
}

// Decrypt decrypts a stored field. It never returns an error: any failure
// (bad base64, wrong IV size, truncated ciphertext, invalid padding) yields
// ("", false) so callers can degrade to an empty value instead of failing a
// whole record read. A zero field decrypts to ("", true).
func (c *FieldCipher) Decrypt(f EncryptedField) (string, bool) {
	if f.IsZero() {
		return "", true
	}

	iv, err := base64.StdEncoding.DecodeString(f.IV)
	if err != nil || len(iv) != aes.BlockSize {
		return "", false
	}
	content, err := base64.StdEncoding.DecodeString(f.Content)
	if err != nil || len(content) == 0 || len(content)%aes.BlockSize != 0 {
		return "", false
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", false
	}

	out := make([]byte, len(content))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, content)

	plain, ok := unpadPKCS7(out, aes.BlockSize)
	if !ok {
		return "", false
	}
	return string(plain), true
}

// DeriveIdentifier computes the stable draft identifier for a pair of
// national identifiers. The two values and the salt are joined with "|" and
// hashed, so the same person always maps to the same draft without storing
// either identifier in the clear.
func DeriveIdentifier(a, b, salt string) string {
	sum := sha256.Sum256([]byte(a + "|" + b + "|" + salt))
	return hex.EncodeToString(sum[:])
}

func padPKCS7(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

func unpadPKCS7(data []byte, blockSize int) ([]byte, bool) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, false
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, false
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, false
		}
	}
	return data[:len(data)-n], true
}
