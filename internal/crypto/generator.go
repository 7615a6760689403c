package crypto

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*-_=+?"

	// MinPasswordLength is the shortest password GeneratePassword will produce.
	MinPasswordLength = 12
	// DefaultPasswordLength is used for generated initial passwords.
	DefaultPasswordLength = 20
)

var ErrPasswordTooShort = errors.New("generated password length must be at least 12")

var charClasses = []string{lowercaseChars, uppercaseChars, digitChars, symbolChars}

// GeneratePassword returns a random password of the given length containing
// at least one lowercase letter, uppercase letter, digit and symbol.
func GeneratePassword(length int) (string, error) {
	if length < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	var pool string
	out := make([]byte, 0, length)
	for _, class := range charClasses {
		ch, err := pick(class)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
		pool += class
	}
	for len(out) < length {
		ch, err := pick(pool)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// Fisher-Yates so the guaranteed characters are not always first.
	for i := len(out) - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		out[i], out[j.Int64()] = out[j.Int64()], out[i]
	}

	return string(out), nil
}

func pick(charset string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
	if err != nil {
		return 0, err
	}
	return charset[n.Int64()], nil
}
