package account

import "golang.org/x/crypto/bcrypt"

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// PINs reuse the password hashing; they are the second factor for
// balance-affecting operations.
func HashPin(pin string) (string, error) { return HashPassword(pin) }

func CheckPin(hash, pin string) bool { return CheckPassword(hash, pin) }
