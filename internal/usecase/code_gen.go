package usecase

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// generateCode mints a random 6-digit numeric code. The space is small
// enough that collisions with live codes are possible; callers must retry
// insertion on a unique-key conflict.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
