package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
)

// PhraseSeed hashes a phrase into the two words of a PCG seed.
func PhraseSeed(phrase string) (uint64, uint64) {
	sum := sha256.Sum256([]byte(phrase))
	return binary.BigEndian.Uint64(sum[0:8]), binary.BigEndian.Uint64(sum[8:16])
}

// NewSource returns the random source that drives tree generation for phrase.
// Two sources built from the same phrase produce the same sequence.
func NewSource(phrase string) *rand.Rand {
	hi, lo := PhraseSeed(phrase)
	return rand.New(rand.NewPCG(hi, lo))
}

// NormalizePhrase trims surrounding whitespace. Front ends seed with the normalized
// phrase, so "hello " and "hello" give the same art everywhere.
func NormalizePhrase(phrase string) string {
	return strings.TrimSpace(phrase)
}

// ArtKey identifies one rendered image for caching: the same phrase, complexity and size
// always produce the same pixels.
func ArtKey(phrase string, complexity, size int) string {
	hi, lo := PhraseSeed(phrase)
	return fmt.Sprintf("%016x%016x:%d:%d", hi, lo, complexity, size)
}
