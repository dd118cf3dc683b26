package util

import "golang.org/x/crypto/bcrypt"

// bcrypt cost for stored credentials. Raising it invalidates nothing;
// old hashes keep verifying at the cost they were created with.
const passwordHashCost = 12

// HashPassword derives a salted bcrypt hash for storing a credential.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether plain matches the stored hash.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
