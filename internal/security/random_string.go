package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// SlugAlphabet matches the characters allowed in organization slugs.
const SlugAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString draws each character uniformly from alphabet using
// crypto/rand.
func RandomString(length int, alphabet string) (string, error) {
	switch {
	case length < 0:
		return "", errNegativeLength
	case length == 0:
		return "", nil
	case alphabet == "":
		return "", errEmptyAlphabet
	}

	symbols := []byte(alphabet)
	limit := big.NewInt(int64(len(symbols)))
	out := make([]byte, 0, length)
	for len(out) < length {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out = append(out, symbols[position.Int64()])
	}
	return string(out), nil
}
