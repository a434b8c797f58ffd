package services

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrOrganizationNameInvalid = errors.New("organization name invalid")
	ErrOrganizationSlugInvalid = errors.New("organization slug invalid")
)

const (
	minOrganizationNameLength = 3
	maxOrganizationNameLength = 80
	minOrganizationSlugLength = 3
	maxOrganizationSlugLength = 80
	derivedSlugLength         = 60
)

var (
	organizationSlugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	slugSeparatorPattern    = regexp.MustCompile(`[^a-z0-9]+`)
)

// NormalizeOrganizationName trims the name and collapses inner whitespace.
func NormalizeOrganizationName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	length := len([]rune(name))
	if length < minOrganizationNameLength || length > maxOrganizationNameLength {
		return "", ErrOrganizationNameInvalid
	}
	return name, nil
}

// CreateOrganizationSlug folds accents away and joins the remaining
// alphanumeric runs with dashes, e.g. "Clínica Ñandú" becomes "clinica-nandu".
func CreateOrganizationSlug(name string) string {
	folding := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(folding, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	slug := strings.Trim(slugSeparatorPattern.ReplaceAllString(folded, "-"), "-")
	if len(slug) > derivedSlugLength {
		slug = strings.TrimRight(slug[:derivedSlugLength], "-")
	}
	return slug
}

func ValidateOrganizationSlug(slug string) error {
	if len(slug) < minOrganizationSlugLength || len(slug) > maxOrganizationSlugLength {
		return ErrOrganizationSlugInvalid
	}
	if !organizationSlugPattern.MatchString(slug) {
		return ErrOrganizationSlugInvalid
	}
	return nil
}
