package zonegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateDNSName(t *testing.T) {
	valid := []string{
		"example.com.",
		"sub.example.com.",
		"a.b.c.d.example.com.",
		"host-name.example.com.",
		"host_name.example.com.",
		"123.example.com.",
		"*.example.com.",
		"*.sub.example.com.",
	}
	for _, name := range valid {
		require.NoError(t, validateDNSName(name), name)
	}

	invalid := []string{
		"example.com",                           // not fully qualified
		"sub.*.example.com.",                    // wildcard not leftmost
		"*sub.example.com.",                     // wildcard not entire label
		"sub*.example.com.",                     // wildcard not entire label
		"..example.com.",                        // empty label
		"sub..example.com.",                     // empty label
		"-invalid.example.com.",                 // leading hyphen
		"invalid-.example.com.",                 // trailing hyphen
		"in valid.example.com.",                 // space
		"in@valid.example.com.",                 // invalid character
		strings.Repeat("a", 250) + ".com.",      // name too long
		strings.Repeat("a", 64) + ".example.com.", // label too long
	}
	for _, name := range invalid {
		require.Error(t, validateDNSName(name), name)
	}

	require.NoError(t, validateDNSName("va-lid.example.com."))
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"admin@example.com",
		"john.doe@example.com",
		"user+tag@example.com",
		"user_name@example.co.uk",
		"test-user@sub.example.com",
		"admin@example.com.", // domain already fully qualified
	}
	for _, email := range valid {
		require.NoError(t, validateEmail(email), email)
	}

	invalid := []string{
		"admin.example.com",       // missing @
		"adminexample.com",        // missing @
		".user@example.com",       // local starts with dot
		"user.@example.com",       // local ends with dot
		"user..name@example.com",  // consecutive dots
		"user name@example.com",   // space
		"user@name@example.com",   // second @
		"user@example",            // no dot in domain
		"user@.example.com",       // empty domain label
		"user@example..com",       // empty domain label
		"user@-example.com",       // leading hyphen
		"user@example-.com",       // trailing hyphen
		"user@example.123",        // all-numeric TLD
		strings.Repeat("a", 250) + "@example.com", // too long
		strings.Repeat("a", 65) + "@example.com",  // local too long
	}
	for _, email := range invalid {
		require.Error(t, validateEmail(email), email)
	}
}
