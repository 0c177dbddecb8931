package main

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// errInvalidDigest signals a stored password hash that bcrypt cannot parse.
// A plain mismatch is not an error; it is a false verification result.
var errInvalidDigest = errors.New("invalid password digest")

const bcryptCost = 10

func hashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// checkPassword reports whether plaintext matches digest. It only errors when
// the digest itself is malformed.
func checkPassword(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, errInvalidDigest
}
