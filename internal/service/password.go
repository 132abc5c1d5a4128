package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

const minPasswordLength = 8

var ErrWeakPassword = errors.New("password is too weak")

// At least one letter and one digit, minimum length included.
var passwordPattern = regexp2.MustCompile(`^(?=.*[A-Za-z])(?=.*\d).{8,}$`, regexp2.None)

var commonPasswords = map[string]struct{}{
	"password1":   {},
	"password12":  {},
	"password123": {},
	"passw0rd":    {},
	"qwerty123":   {},
	"qwerty12":    {},
	"azerty123":   {},
	"abc12345":    {},
	"abcd1234":    {},
	"1q2w3e4r":    {},
	"1qaz2wsx":    {},
	"admin123":    {},
	"welcome1":    {},
	"welcome123":  {},
	"letmein1":    {},
	"iloveyou1":   {},
	"monkey123":   {},
	"dragon123":   {},
	"sunshine1":   {},
	"football1":   {},
	"baseball1":   {},
	"superman1":   {},
	"trustno1":    {},
	"changeme1":   {},
	"student1":    {},
	"student123":  {},
	"canteen1":    {},
	"canteen123":  {},
}

// ValidatePassword checks the password policy applied at registration. The
// returned error wraps ErrWeakPassword and says which rule failed.
func ValidatePassword(password, username string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: it must contain at least %d characters", ErrWeakPassword, minPasswordLength)
	}

	if isNumeric(password) {
		return fmt.Errorf("%w: it is entirely numeric", ErrWeakPassword)
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return fmt.Errorf("%w: it is too common", ErrWeakPassword)
	}

	if len(username) >= 3 && strings.Contains(strings.ToLower(password), strings.ToLower(username)) {
		return fmt.Errorf("%w: it is too similar to the username", ErrWeakPassword)
	}

	ok, err := passwordPattern.MatchString(password)
	if err != nil {
		return fmt.Errorf("passwordPattern.MatchString -> %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: it must contain at least one letter and one digit", ErrWeakPassword)
	}

	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
