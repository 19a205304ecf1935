package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 12

// set hashes pwd and drops the plaintext.
func (p *Password) set(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}

	p.Plain = ""
	p.hash = hash
	p.hashed = true

	return nil
}

// ensureHashed hashes the plaintext unless the password already holds a hash.
func (p *Password) ensureHashed() error {
	if p.hashed {
		return nil
	}

	return p.set(p.Plain)
}

func (p *Password) IsHashed() bool {
	return p.hashed
}

func (p *Password) compare(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}

	return true, nil
}
