package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Field names with registered rule sets.
const (
	FieldUsername      = "username"
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldReviewTitle   = "review_title"
	FieldReviewContent = "review_content"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperRegex    = regexp.MustCompile(`[A-Z]`)
	lowerRegex    = regexp.MustCompile(`[a-z]`)
	digitRegex    = regexp.MustCompile(`[0-9]`)
)

// Rule checks one property of a value and returns a human-readable
// violation message, or "" when the value passes.
type Rule func(value string) string

// RuleSet is the ordered list of rules for one field. Rules are data:
// adding a requirement means appending here, not touching call sites.
type RuleSet []Rule

func minLength(n int, what string) Rule {
	return func(v string) string {
		if len(v) < n {
			return what + " must be at least " + strconv.Itoa(n) + " characters"
		}
		return ""
	}
}

func maxLength(n int, what string) Rule {
	return func(v string) string {
		if len(v) > n {
			return what + " must be no more than " + strconv.Itoa(n) + " characters"
		}
		return ""
	}
}

func matches(re *regexp.Regexp, msg string) Rule {
	return func(v string) string {
		if !re.MatchString(v) {
			return msg
		}
		return ""
	}
}

// rules is the registry of per-field rule sets. Password special
// characters are not required, mirroring the documented policy.
var rules = map[string]RuleSet{
	FieldUsername: {
		minLength(3, "Username"),
		maxLength(20, "Username"),
		matches(usernameRegex, "Username can only contain letters, numbers, and underscores"),
	},
	FieldEmail: {
		matches(emailRegex, "Please enter a valid email address"),
	},
	FieldPassword: {
		minLength(8, "Password"),
		maxLength(128, "Password"),
		matches(upperRegex, "Password must contain at least one uppercase letter"),
		matches(lowerRegex, "Password must contain at least one lowercase letter"),
		matches(digitRegex, "Password must contain at least one number"),
	},
	FieldReviewTitle: {
		maxLength(100, "Review title"),
	},
	FieldReviewContent: {
		minLength(10, "Review"),
		maxLength(2000, "Review"),
	},
}

// Validate runs the registered rule set for a field and returns every
// violation. An unregistered field always passes.
func Validate(field, value string) []string {
	var violations []string
	for _, rule := range rules[field] {
		if msg := rule(value); msg != "" {
			violations = append(violations, msg)
		}
	}
	return violations
}

// Error aggregates all violations found in one validation pass.
type Error struct {
	Violations []string
}

func (e *Error) Error() string {
	return strings.Join(e.Violations, ", ")
}

// Collect builds an *Error from accumulated violations, or returns nil
// when there are none.
func Collect(violations []string) error {
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}
