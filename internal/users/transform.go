package users

import (
	"regexp"
	"strings"

	"github.com/ZERO20/latai-labs-etl-test/internal/domain"
)

// emailPattern accepts a dotted local part, an @, and a domain with at least
// one dot-separated label of two or more letters. No whitespace anywhere.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9_%+-]+(\.[a-zA-Z0-9_%+-]+)*@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail reports whether email (after trimming surrounding whitespace)
// matches the accepted address shape.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// NormalizeName trims and upper-cases a user's name.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// ComposeAddress joins street, suite, city and zipcode, in that order, with
// ", ". Empty components are skipped so no doubled delimiters appear.
func ComposeAddress(a domain.Address) string {
	parts := make([]string, 0, 4)
	for _, part := range []string{a.Street, a.Suite, a.City, a.Zipcode} {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Clean maps one raw user to its output form. Pure and deterministic; the
// caller is responsible for email filtering and dedup.
func Clean(u domain.RawUser) domain.CleanUser {
	return domain.CleanUser{
		ID:          u.ID,
		Name:        NormalizeName(u.Name),
		Email:       strings.TrimSpace(u.Email),
		FullAddress: ComposeAddress(u.Address),
	}
}
