package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword bcrypt-hashes an account password. The cost comes from
// configuration so tests can use bcrypt.MinCost while production runs a
// real work factor.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored hash, in constant
// time with respect to the hash comparison.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
