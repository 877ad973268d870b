package security

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrPasswordTooShort       = errors.New("password is too short")
	ErrPasswordTooLong        = errors.New("password is too long")
	ErrPasswordMissingUpper   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordMissingLower   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordMissingDigit   = errors.New("password must contain at least one digit")
	ErrPasswordMissingSpecial = errors.New("password must contain at least one special character")
	ErrPasswordAllNumeric     = errors.New("password cannot be entirely numeric")
	ErrPasswordRepeated       = errors.New("password contains too many repeated characters")
	ErrPasswordPersonalInfo   = errors.New("password is too similar to your personal information")
	ErrPasswordCommon         = errors.New("password is too common")
)

var (
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`[0-9]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?~` + "`" + `]`)
	numericPattern = regexp.MustCompile(`^[0-9]+$`)
)

// bcrypt ignores input beyond 72 bytes
const maxPasswordBytes = 72

// PasswordPolicy defines the requirements for an account password
type PasswordPolicy struct {
	MinLength         int
	RequireUppercase  bool
	RequireLowercase  bool
	RequireDigit      bool
	RequireSpecial    bool
	DisallowNumeric   bool
	DisallowCommon    bool
	MaxRepeatedChars  int
	DisallowPersonal  bool
	DisallowSequences bool
}

// DefaultPasswordPolicy is used for registration and password resets
func DefaultPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{
		MinLength:         8,
		RequireUppercase:  false,
		RequireLowercase:  true,
		RequireDigit:      true,
		RequireSpecial:    false,
		DisallowNumeric:   true,
		DisallowCommon:    true,
		MaxRepeatedChars:  4,
		DisallowPersonal:  true,
		DisallowSequences: true,
	}
}

// StrictPasswordPolicy is used for administrator accounts
func StrictPasswordPolicy() *PasswordPolicy {
	p := DefaultPasswordPolicy()
	p.MinLength = 12
	p.RequireUppercase = true
	p.RequireSpecial = true
	p.MaxRepeatedChars = 3
	return p
}

// ValidatePassword checks password against the policy. personal holds
// attributes of the account (names, email) the password must not contain.
func (p *PasswordPolicy) ValidatePassword(password string, personal ...string) error {
	if len(password) < p.MinLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	if p.DisallowNumeric && numericPattern.MatchString(password) {
		return ErrPasswordAllNumeric
	}
	if p.RequireUppercase && !upperPattern.MatchString(password) {
		return ErrPasswordMissingUpper
	}
	if p.RequireLowercase && !lowerPattern.MatchString(password) {
		return ErrPasswordMissingLower
	}
	if p.RequireDigit && !digitPattern.MatchString(password) {
		return ErrPasswordMissingDigit
	}
	if p.RequireSpecial && !specialPattern.MatchString(password) {
		return ErrPasswordMissingSpecial
	}
	if p.MaxRepeatedChars > 0 && hasRepeatedRun(password, p.MaxRepeatedChars) {
		return ErrPasswordRepeated
	}

	lower := strings.ToLower(password)
	if p.DisallowPersonal {
		for _, attr := range personal {
			for _, part := range personalTokens(attr) {
				if strings.Contains(lower, part) {
					return ErrPasswordPersonalInfo
				}
			}
		}
	}
	if p.DisallowSequences {
		for _, seq := range commonSequences {
			if strings.Contains(lower, seq) {
				return ErrPasswordCommon
			}
		}
	}
	if p.DisallowCommon && commonPasswords[lower] {
		return ErrPasswordCommon
	}
	return nil
}

func hasRepeatedRun(s string, n int) bool {
	run := 1
	for i := 1; i < len(s); i++ {
		if s[i] == s[i-1] {
			run++
			if run >= n {
				return true
			}
			continue
		}
		run = 1
	}
	return n <= 1 && len(s) > 0
}

// personalTokens splits an attribute into the fragments worth checking.
// An email contributes its local part; fragments under 3 characters are ignored.
func personalTokens(attr string) []string {
	attr = strings.ToLower(strings.TrimSpace(attr))
	if at := strings.Index(attr, "@"); at >= 0 {
		attr = attr[:at]
	}
	var out []string
	for _, f := range strings.FieldsFunc(attr, func(r rune) bool {
		return r == ' ' || r == '.' || r == '_' || r == '-' || r == '+'
	}) {
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}

var commonSequences = []string{
	"123456", "password", "qwerty", "abc123", "letmein", "iloveyou",
	"654321", "qazwsx", "trustno1", "passw0rd",
}

var commonPasswords = map[string]bool{
	"password1":  true,
	"12345678":   true,
	"welcome1":   true,
	"monkey123":  true,
	"dragon123":  true,
	"sunshine1":  true,
	"baseball1":  true,
	"football1":  true,
	"superman1":  true,
	"princess1":  true,
	"starwars1":  true,
	"master123":  true,
	"admin123":   true,
	"welcome123": true,
	"realestate": true,
	"property1":  true,
	"hello123":   true,
	"freedom1":   true,
	"shadow123":  true,
	"michael1":   true,
}
