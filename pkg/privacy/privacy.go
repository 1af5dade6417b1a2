// Package privacy protects personal data attached to generated letters:
// reversible encryption for values the product must show again, one-way
// digests for exact-match lookup, and redaction for on-screen previews.
package privacy

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
	"strings"

	"github.com/goliatone/go-lettergen/pkg/fields"
	"github.com/goliatone/go-lettergen/pkg/letter"
)

// Codec performs the symmetric crypto for stored personal data. The AES key
// is derived by hashing the configured secret, so the raw secret never acts
// as key material directly.
type Codec struct {
	aead cipher.AEAD
}

// NewCodec derives an AES-256-GCM codec from the configured secret.
func NewCodec(secret string) (*Codec, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("privacy: secret is required")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("privacy: derive cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("privacy: init gcm: %w", err)
	}
	return &Codec{aead: aead}, nil
}

// Encrypt seals plaintext into a base64 token safe for column storage.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("privacy: nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.URLEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. It fails on tokens produced under a different
// secret or tampered ciphertext.
func (c *Codec) Decrypt(token string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", fmt.Errorf("privacy: decode token: %w", err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", errors.New("privacy: token too short")
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("privacy: open token: %w", err)
	}
	return string(plaintext), nil
}

// HashLookup produces the deterministic one-way digest stored for
// exact-match search on phone numbers and email addresses. It is never
// reversed; equality of digests is the only supported operation.
func HashLookup(plaintext string) string {
	trimmed := strings.TrimSpace(plaintext)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(sum[:])
}

// MaskPreview redacts sensitive field values inside rendered text, keeping
// at most the last four characters of each occurrence. Values of four
// characters or fewer become all asterisks.
func MaskPreview(rendered string, values map[string]string) string {
	masked := rendered
	for name, value := range values {
		if !fields.Sensitive(name) {
			continue
		}
		trimmed := strings.TrimSpace(value)
		if trimmed == "" || strings.EqualFold(trimmed, letter.SkipSentinel) {
			continue
		}
		masked = strings.ReplaceAll(masked, trimmed, Redact(trimmed))
	}
	return masked
}

// Redact keeps the last four characters of a value, or none when the value
// is that short.
func Redact(value string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
