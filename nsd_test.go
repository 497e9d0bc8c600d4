package zonegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNSDLine(t *testing.T) {
	// Record at the zone TTL, TTL column stays empty
	require.Equal(t,
		"www"+strings.Repeat(" ", 28)+" A       10.0.0.2\n",
		nsdLine("www", 10800, 10800, "A", "10.0.0.2"))

	// Per-record TTL is right-aligned against the column
	require.Equal(t,
		"www"+strings.Repeat(" ", 24)+" 300 A       10.0.0.2\n",
		nsdLine("www", 300, 10800, "A", "10.0.0.2"))

	// Overlong owners push into the type column without panicking
	long := strings.Repeat("x", 40)
	require.Equal(t, long+" A 10.0.0.2\n", nsdLine(long, 10800, 10800, "A", "10.0.0.2"))
}

func TestStripOwner(t *testing.T) {
	require.Equal(t, "@", stripOwner("example.com.", "example.com."))
	require.Equal(t, "www", stripOwner("www.example.com.", "example.com."))
	require.Equal(t, "a.b", stripOwner("a.b.example.com.", "example.com."))
	require.Equal(t, "host.other.net.", stripOwner("host.other.net.", "example.com."))
}

func TestRenderNSD(t *testing.T) {
	conf, files := renderNSD([]ForwardZone{testForwardZone()}, []ReverseZone{testReverseZone()})

	require.Contains(t, conf, "zone:\n    name: example.com.\n    zonefile: master/example.com.zone\n")
	require.Contains(t, conf, "zone:\n    name: 0.10.in-addr.arpa.\n    zonefile: master/0.10.in-addr.arpa.zone\n")

	zone, ok := files[filepath.Join("master", "example.com.zone")]
	require.True(t, ok)
	require.Contains(t, zone, "$ORIGIN example.com.\n$TTL 10800\n")
	require.Contains(t, zone, "IN SOA     ns1.example.com. admin.example.com. (")
	require.Contains(t, zone, "; serial number")
	require.Contains(t, zone, "; min ttl")
	require.Contains(t, zone, "NS      ns1.example.com.\n")
	require.Contains(t, zone, "MX   10 mail.example.com.\n")

	// Apex host uses "@", repeated owners are blanked
	require.Contains(t, zone, "@"+strings.Repeat(" ", 30)+" A       10.0.0.80\n")
	require.Contains(t, zone, "www"+strings.Repeat(" ", 24)+" 300 A       10.0.0.2\n")
	require.Contains(t, zone, strings.Repeat(" ", 31)+" AAAA    fd00::2\n")

	require.Contains(t, zone, "_smtp._tcp"+strings.Repeat(" ", 21)+" SRV     0 5 25 mail.example.com.\n")
	require.Contains(t, zone, "web"+strings.Repeat(" ", 28)+" CNAME   www.example.com.\n")

	rzone, ok := files[filepath.Join("master", "0.10.in-addr.arpa.zone")]
	require.True(t, ok)
	require.Contains(t, rzone, "$ORIGIN 0.10.in-addr.arpa.\n")
	require.Contains(t, rzone, "2.0"+strings.Repeat(" ", 28)+" PTR     www.example.com.\n")
	require.Contains(t, rzone, "80.0"+strings.Repeat(" ", 27)+" PTR     example.com.\n")
}

func TestWriteNSD(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteNSD(dir, []ForwardZone{testForwardZone()}, []ReverseZone{testReverseZone()}))

	conf, err := os.ReadFile(filepath.Join(dir, "zones.conf"))
	require.NoError(t, err)
	require.Contains(t, string(conf), "name: example.com.")

	zone, err := os.ReadFile(filepath.Join(dir, "master", "example.com.zone"))
	require.NoError(t, err)
	require.Contains(t, string(zone), "$ORIGIN example.com.")

	_, err = os.Stat(filepath.Join(dir, "master", "0.10.in-addr.arpa.zone"))
	require.NoError(t, err)
}
