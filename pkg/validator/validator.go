package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Error is a field-level validation failure with a human-readable reason.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func fail(field, reason string) error {
	return &Error{Field: field, Reason: reason}
}

const (
	// checksumAlphabet maps number mod 23 to the expected DNI control letter.
	checksumAlphabet = "TRWAGMYFPDXBNJZSQVHLCKE"
	specialChars     = "_.!@#$%^&"
)

var (
	dniRegex   = regexp.MustCompile(`^(\d{8})([A-Z])$`)
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// DNI checks the 8-digit-plus-letter shape and the mod-23 checksum letter.
func DNI(dni string) error {
	m := dniRegex.FindStringSubmatch(dni)
	if m == nil {
		return fail("dni", "must be 8 digits followed by an uppercase letter")
	}
	var number int
	for _, ch := range m[1] {
		number = number*10 + int(ch-'0')
	}
	if byte(m[2][0]) != checksumAlphabet[number%23] {
		return fail("dni", "control letter does not match")
	}
	return nil
}

func Nickname(nickname string) error {
	if len(nickname) < 3 {
		return fail("nickname", "must be at least 3 characters")
	}
	return nil
}

func Email(email string) error {
	if !emailRegex.MatchString(email) {
		return fail("email", "must be a valid email address")
	}
	return nil
}

// Password requires at least 8 characters with one lowercase letter, one
// uppercase letter, one digit and one special character. Spaces are not
// allowed and the first character must not be special.
func Password(password string) error {
	if len(password) < 8 {
		return fail("password", "must be at least 8 characters")
	}
	if strings.ContainsRune(password, ' ') {
		return fail("password", "must not contain spaces")
	}
	if strings.ContainsRune(specialChars, rune(password[0])) {
		return fail("password", "must not start with a special character")
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, ch := range password {
		switch {
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsDigit(ch):
			hasDigit = true
		case strings.ContainsRune(specialChars, ch):
			hasSpecial = true
		}
	}
	if !hasLower || !hasUpper || !hasDigit || !hasSpecial {
		return fail("password", "must contain a lowercase letter, an uppercase letter, a digit and a special character")
	}
	return nil
}

// PersonName validates name and surname fields: minimum length 3, no special
// characters.
func PersonName(field, value string) error {
	if len(value) < 3 {
		return fail(field, "must be at least 3 characters")
	}
	if strings.ContainsAny(value, specialChars) {
		return fail(field, "must not contain special characters")
	}
	return nil
}

// Birthdate parses a strict YYYY-MM-DD date and checks the birth year implies
// an age of at least 18. Only the year is checked, not month and day.
func Birthdate(birthdate string) (time.Time, error) {
	if !dateRegex.MatchString(birthdate) {
		return time.Time{}, fail("birthdate", "must be in YYYY-MM-DD format")
	}
	t, err := time.Parse("2006-01-02", birthdate)
	if err != nil {
		return time.Time{}, fail("birthdate", "is not a valid date")
	}
	year := t.Year()
	if year < 1900 || year > time.Now().Year()-18 {
		return time.Time{}, fail("birthdate", "you must be at least 18 years old")
	}
	return t, nil
}
