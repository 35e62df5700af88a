package game

import (
	"crypto/rand"
	"math/big"
)

// joinCodeAlphabet leaves out 0, O, 1 and I so codes survive being read
// aloud or copied from a screen.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewJoinCode returns a human-readable room code of the given length.
func NewJoinCode(length int) (string, error) {
	code := make([]byte, length)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
