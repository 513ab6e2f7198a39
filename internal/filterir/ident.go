package filterir

import "regexp"

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	qualifiedPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// IsIdentifier reports whether name is a plain SQL identifier such as
// "user_id".
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// IsQualifiedIdentifier reports whether name is an identifier optionally
// qualified by one table name, such as "users.user_id".
func IsQualifiedIdentifier(name string) bool {
	return qualifiedPattern.MatchString(name)
}
