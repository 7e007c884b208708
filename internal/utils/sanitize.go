package utils

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// SanitizeInput escapes HTML-significant characters and trims surrounding whitespace
func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlEscaper.Replace(input))
}

// SanitizeOptional sanitizes a pointer value; empty results become nil
func SanitizeOptional(input *string) *string {
	if input == nil {
		return nil
	}
	sanitized := SanitizeInput(*input)
	if sanitized == "" {
		return nil
	}
	return &sanitized
}

// Truncate cuts s to at most max characters
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// IPHasher produces a fixed-length one-way fingerprint of a network origin
type IPHasher struct {
	key []byte
}

// NewIPHasher keys the fingerprint with salt; an empty salt gives a plain hash
func NewIPHasher(salt string) *IPHasher {
	if salt == "" {
		return &IPHasher{}
	}
	key := blake2b.Sum256([]byte(salt))
	return &IPHasher{key: key[:]}
}

// Hash returns 64 lowercase hex characters
func (h *IPHasher) Hash(ip string) string {
	hasher, err := blake2b.New256(h.key)
	if err != nil {
		// only possible with a key over 64 bytes, which NewIPHasher never builds
		panic(err)
	}
	hasher.Write([]byte(ip))
	return hex.EncodeToString(hasher.Sum(nil))
}
