package core

import (
	"encoding/binary"
	"strings"

	"github.com/go-crypt/x/blake2b"
)

// NormalizeDescription trims surrounding whitespace and lower-cases text.
// Descriptions are stored and embedded in this form.
func NormalizeDescription(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Fingerprint returns a BLAKE2b-64 hash of the normalized description.
// Identical descriptions always produce identical fingerprints.
func Fingerprint(description string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(NormalizeDescription(description)))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}
