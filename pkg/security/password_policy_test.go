package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPasswordPolicy_ValidatePassword(t *testing.T) {
	p := DefaultPasswordPolicy()

	cases := []struct {
		name     string
		password string
		personal []string
		want     error
	}{
		{name: "valid", password: "harbor7lights", want: nil},
		{name: "too short", password: "ab1", want: ErrPasswordTooShort},
		{name: "too long", password: string(make([]byte, 80)), want: ErrPasswordTooLong},
		{name: "numeric", password: "908172635", want: ErrPasswordAllNumeric},
		{name: "no lower", password: "HARBOR7LIGHTS", want: ErrPasswordMissingLower},
		{name: "no digit", password: "harborlights", want: ErrPasswordMissingDigit},
		{name: "repeated", password: "haaaarbor7x", want: ErrPasswordRepeated},
		{name: "contains first name", password: "priya2024home", personal: []string{"Priya", "Sharma"}, want: ErrPasswordPersonalInfo},
		{name: "contains email local part", password: "xjdoe99house", personal: []string{"jdoe99@example.com"}, want: ErrPasswordPersonalInfo},
		{name: "short personal fragment ignored", password: "harbor7lights", personal: []string{"Al"}, want: nil},
		{name: "sequence", password: "myqwerty42", want: ErrPasswordCommon},
		{name: "common", password: "property1", want: ErrPasswordCommon},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := p.ValidatePassword(tc.password, tc.personal...)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStrictPasswordPolicy(t *testing.T) {
	p := StrictPasswordPolicy()

	assert.ErrorIs(t, p.ValidatePassword("harbor7lights"), ErrPasswordMissingUpper)
	assert.ErrorIs(t, p.ValidatePassword("Harbor7lights"), ErrPasswordMissingSpecial)
	assert.ErrorIs(t, p.ValidatePassword("Hb7!x"), ErrPasswordTooShort)
	assert.NoError(t, p.ValidatePassword("Harbor7lights!"))
}

func TestHasRepeatedRun(t *testing.T) {
	assert.False(t, hasRepeatedRun("abcabc", 2))
	assert.True(t, hasRepeatedRun("abbc", 2))
	assert.False(t, hasRepeatedRun("abbbc", 4))
	assert.True(t, hasRepeatedRun("abbbbc", 4))
}

func TestPersonalTokens(t *testing.T) {
	assert.Equal(t, []string{"jane", "doe", "home"}, personalTokens("jane.doe+home@example.com"))
	assert.Equal(t, []string{"mary", "ann"}, personalTokens(" Mary Ann "))
	assert.Empty(t, personalTokens("Al"))
}
