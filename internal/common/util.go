package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes to generate, so the
// resulting string is twice as long (each byte expands to two hex characters).
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// MakeRandBase36String generates a random lowercase base36 string of exactly
// n characters. It is used as the collision guard in generated storage
// filenames: two uploads landing in the same millisecond still get distinct
// names.
func MakeRandBase36String(n int) (string, error) {
	out := make([]byte, n)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = base36Alphabet[idx.Int64()]
	}
	return string(out), nil
}
