// Package fingerprint computes 64-bit locality-sensitive fingerprints
// over conversation text and tracks duplicates within a single batch.
package fingerprint

import (
	"hash/fnv"
	"math/bits"
	"strconv"

	"github.com/nativya/nativya-scoring-engine/internal/scoring"
)

// Hash computes the SimHash of the text: each token is hashed to a
// 64-bit code, token frequencies weight a per-bit majority vote, and
// the vote signs form the fingerprint. Near-duplicate text yields a
// fingerprint within a small Hamming distance of the original;
// unrelated text lands ~32 bits away.
func Hash(text string) uint64 {
	tokens := scoring.Tokenize(text)
	if len(tokens) == 0 {
		return 0
	}

	weights := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		weights[tok]++
	}

	var votes [64]int
	for tok, weight := range weights {
		h := fnv.New64a()
		h.Write([]byte(tok))
		code := h.Sum64()
		for i := 0; i < 64; i++ {
			if code&(1<<uint(i)) != 0 {
				votes[i] += weight
			} else {
				votes[i] -= weight
			}
		}
	}

	var fp uint64
	for i := 0; i < 64; i++ {
		if votes[i] > 0 {
			fp |= 1 << uint(i)
		}
	}
	return fp
}

// Format renders a fingerprint the way it travels on the wire: as a
// decimal string.
func Format(fp uint64) string {
	return strconv.FormatUint(fp, 10)
}

// HammingDistance counts differing bits between two fingerprints.
func HammingDistance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}
