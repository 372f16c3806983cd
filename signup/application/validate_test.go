package application

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/samanthaatlas/atlas-V10/signup/domain"
)

func TestValidate_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		assert.ErrorIs(t, Validate(in), domain.ErrEmptyEmail, "input %q", in)
	}
}

func TestValidate_RejectsMissingAtOrDot(t *testing.T) {
	cases := []string{
		"not-an-email",
		"user.example.com",
		"user@example",
		"user@examplecom",
		"@example.com",
		"user@.com",
		"user@example.c",
		"us er@example.com",
		"user@@example.com",
		"user@example.c.x",
		"user@example.c.",
		"user@a..b",
		"user@example.com.",
	}
	for _, in := range cases {
		assert.ErrorIs(t, Validate(in), domain.ErrInvalidFormat, "input %q", in)
	}
}

func TestValidate_AcceptsLocalAtDomainTLD(t *testing.T) {
	cases := []string{
		"user@example.com",
		"a@b.co",
		"first.last+tag@sub.example.io",
		"  padded@example.org  ",
		"ünïcode@exämple.de",
	}
	for _, in := range cases {
		assert.NoError(t, Validate(in), "input %q", in)
	}
}
