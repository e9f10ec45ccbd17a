package validator

import "strings"

// Email reports whether email is a syntactically valid bare address.
func Email(email string) bool {
	return validate.Var(strings.TrimSpace(email), "required,email") == nil
}
