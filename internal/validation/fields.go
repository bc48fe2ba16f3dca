package validation

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default patterns for account fields.
const (
	DefaultUsernamePattern = `^[A-Za-z][A-Za-z0-9_]{2,19}$`
)

// DefaultPasswordPatterns must all match for a password to be accepted.
// RE2 has no lookahead, so composition rules are separate patterns.
var DefaultPasswordPatterns = []string{
	`^[\x21-\x7e]{8,16}$`,
	`[A-Za-z]`,
	`[0-9]`,
}

// Rules holds the format rules applied to registration input.
type Rules struct {
	Username *regexp.Regexp
	Password []*regexp.Regexp
}

// DefaultRules returns the rules built from the default patterns.
func DefaultRules() Rules {
	rules, err := CompileRules(DefaultUsernamePattern, DefaultPasswordPatterns)
	if err != nil {
		panic(err)
	}
	return rules
}

// CompileRules compiles the username pattern and password patterns.
func CompileRules(username string, password []string) (Rules, error) {
	u, err := regexp.Compile(username)
	if err != nil {
		return Rules{}, err
	}
	rules := Rules{Username: u}
	for _, p := range password {
		re, err := regexp.Compile(p)
		if err != nil {
			return Rules{}, err
		}
		rules.Password = append(rules.Password, re)
	}
	return rules, nil
}

// Validator checks account fields against a set of Rules.
type Validator struct {
	rules    Rules
	validate *validator.Validate
}

// NewValidator creates a new Validator.
func NewValidator(rules Rules) *Validator {
	return &Validator{
		rules:    rules,
		validate: validator.New(),
	}
}

// ValidUsername reports whether the trimmed username is non-empty and matches the rules.
func (v *Validator) ValidUsername(username string) bool {
	username = strings.TrimSpace(username)
	return username != "" && v.rules.Username.MatchString(username)
}

// ValidPassword reports whether the trimmed password is non-empty and matches every password rule.
func (v *Validator) ValidPassword(password string) bool {
	password = strings.TrimSpace(password)
	if password == "" {
		return false
	}
	for _, re := range v.rules.Password {
		if !re.MatchString(password) {
			return false
		}
	}
	return true
}

// ConfirmMatches reports whether the trimmed confirmation equals the trimmed password.
func ConfirmMatches(confirm, password string) bool {
	confirm = strings.TrimSpace(confirm)
	return confirm != "" && confirm == strings.TrimSpace(password)
}

// ValidEmail reports whether the trimmed email is non-empty and email shaped.
func (v *Validator) ValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && v.validate.Var(email, "email") == nil
}

// CheckRegistration appends one issue per failing field. Every field is
// checked regardless of earlier failures. A nil email is not checked.
func (v *Validator) CheckRegistration(r *Report, username, password, confirmPassword string, email *string) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		r.Append("username", "empty username is not allowed")
	case !v.ValidUsername(username):
		r.Append("username", "invalid username")
	}

	password = strings.TrimSpace(password)
	switch {
	case password == "":
		r.Append("password", "empty password is not allowed")
	case !v.ValidPassword(password):
		r.Append("password", "your password is too weak or the length is not in the range [8,16]")
	}

	confirmPassword = strings.TrimSpace(confirmPassword)
	switch {
	case confirmPassword == "":
		r.Append("confirm_password", "empty password is not allowed")
	case !ConfirmMatches(confirmPassword, password):
		r.Append("confirm_password", "confirm password not match the password")
	}

	if email != nil {
		trimmed := strings.TrimSpace(*email)
		switch {
		case trimmed == "":
			r.Append("email", "empty email is not allowed")
		case !v.ValidEmail(trimmed):
			r.Append("email", "not a valid email address")
		}
	}
}
