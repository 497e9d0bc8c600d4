package zonegen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHostName(t *testing.T) {
	name, err := parseHostName("host", "example.com.")
	require.NoError(t, err)
	require.Equal(t, "host.example.com.", name)

	// Already fully qualified names pass through, whatever the zone
	name, err = parseHostName("host.", "anything")
	require.NoError(t, err)
	require.Equal(t, "host.", name)

	name, err = parseHostName("example.com.", "zone.com.")
	require.NoError(t, err)
	require.Equal(t, "example.com.", name)

	// "@" is the zone apex
	name, err = parseHostName("@", "example.com.")
	require.NoError(t, err)
	require.Equal(t, "example.com.", name)

	// Whitespace is trimmed
	name, err = parseHostName("  host  ", "example.com.")
	require.NoError(t, err)
	require.Equal(t, "host.example.com.", name)

	// A relative name without a zone can not be completed
	_, err = parseHostName("host", "")
	require.Error(t, err)

	// FQDN completion is a no-op on an already-completed result
	again, err := parseHostName(name, "other.zone.")
	require.NoError(t, err)
	require.Equal(t, name, again)
}

func TestParseSRVName(t *testing.T) {
	name, err := parseSRVName("_http._tcp", "example.com.")
	require.NoError(t, err)
	require.Equal(t, "_http._tcp.example.com.", name)

	name, err = parseSRVName("_http._tcp.example.com.", "zone.com.")
	require.NoError(t, err)
	require.Equal(t, "_http._tcp.example.com.", name)

	_, err = parseSRVName("http._tcp", "example.com.")
	require.Error(t, err)

	_, err = parseSRVName("_http.tcp", "example.com.")
	require.Error(t, err)

	_, err = parseSRVName("_http", "example.com.")
	require.Error(t, err)
}

func TestParseEmail(t *testing.T) {
	email, err := parseEmail("admin@example.com")
	require.NoError(t, err)
	require.Equal(t, "admin.example.com.", email)

	// Dots in the local part are escaped in the SOA mailbox encoding
	email, err = parseEmail("john.doe@example.com")
	require.NoError(t, err)
	require.Equal(t, `john\.doe.example.com.`, email)

	// A domain that is already fully qualified keeps its single dot
	email, err = parseEmail("admin@example.com.")
	require.NoError(t, err)
	require.Equal(t, "admin.example.com.", email)

	_, err = parseEmail("admin.example.com")
	require.Error(t, err)
}
