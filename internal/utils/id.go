package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

func randomBase36(n int) (string, error) {
	max := big.NewInt(0).Exp(big.NewInt(36), big.NewInt(int64(n)), nil)
	v, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	s := ""
	for i := 0; i < n; i++ {
		rem := new(big.Int)
		v.DivMod(v, big.NewInt(36), rem)
		s = string(base36Alphabet[int(rem.Int64())]) + s
	}
	return strings.ToUpper(s), nil
}

// GenerateUserID returns USR00 + 5 base36 chars.
func GenerateUserID() (string, error) {
	s, err := randomBase36(5)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("USR00%s", s), nil
}

// GenerateStudentID returns STU + 9 base36 chars.
func GenerateStudentID() (string, error) {
	s, err := randomBase36(9)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("STU%s", s), nil
}

// GenerateAccountID returns ACC + 12 base36 chars. Drawn from crypto/rand so
// concurrent conversions cannot collide the way a wall-clock token would.
func GenerateAccountID() (string, error) {
	s, err := randomBase36(12)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ACC%s", s), nil
}
