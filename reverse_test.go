package zonegen

import (
	"net/netip"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReverseZoneName(t *testing.T) {
	tests := []struct {
		network string
		name    string
		split   int
	}{
		{"192.168.1.0/24", "1.168.192.in-addr.arpa.", 1},
		{"10.0.0.0/16", "0.10.in-addr.arpa.", 2},
		{"10.0.0.0/8", "10.in-addr.arpa.", 3},
		// Host bits are masked away before deriving the name
		{"10.0.5.9/16", "0.10.in-addr.arpa.", 2},
		// Prefixes off a label boundary truncate toward the zone boundary
		{"192.168.1.128/25", "1.168.192.in-addr.arpa.", 0},
		{"fd00:1234:5678:1::/64", "1.0.0.0.8.7.6.5.4.3.2.1.0.0.d.f.ip6.arpa.", 16},
		{"fd00::/16", "0.0.d.f.ip6.arpa.", 28},
	}
	for _, test := range tests {
		name, split := reverseZoneName(netip.MustParsePrefix(test.network))
		require.Equal(t, test.name, name, test.network)
		require.Equal(t, test.split, split, test.network)
	}
}

func TestIPName(t *testing.T) {
	require.Equal(t, "17", ipName(netip.MustParseAddr("192.168.1.17"), 1))
	require.Equal(t, "5.1", ipName(netip.MustParseAddr("10.0.1.5"), 2))
	require.Equal(t, "5.1.0", ipName(netip.MustParseAddr("10.0.1.5"), 3))
	require.Equal(t,
		"2.4.0.0.0.0.0.0.0.0.0.0.0.0.0.0",
		ipName(netip.MustParseAddr("fd00:1234:5678:1::42"), 16))
}

func TestPTRPool(t *testing.T) {
	pool := newPTRPool()
	require.NoError(t, pool.insert(PTRRecord{Addr: netip.MustParseAddr("10.0.0.5"), Name: "five.example.com.", TTL: 300}))
	require.NoError(t, pool.insert(PTRRecord{Addr: netip.MustParseAddr("10.0.0.1"), Name: "one.example.com.", TTL: 300}))
	require.NoError(t, pool.insert(PTRRecord{Addr: netip.MustParseAddr("10.1.0.1"), Name: "other.example.com.", TTL: 300}))
	require.NoError(t, pool.insert(PTRRecord{Addr: netip.MustParseAddr("fd00::1"), Name: "v6.example.com.", TTL: 300}))

	// A second candidate for the same address is a conflict, whatever the name
	err := pool.insert(PTRRecord{Addr: netip.MustParseAddr("10.0.0.5"), Name: "clash.example.com.", TTL: 300})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate PTR")

	// Claiming drains the network's candidates, sorted by address
	claimed := pool.claim(netip.MustParsePrefix("10.0.0.0/24"))
	require.Len(t, claimed, 2)
	require.Equal(t, "one.example.com.", claimed[0].Name)
	require.Equal(t, "five.example.com.", claimed[1].Name)
	require.Empty(t, pool.claim(netip.MustParsePrefix("10.0.0.0/24")))

	left := pool.unclaimed()
	require.Equal(t, []netip.Addr{
		netip.MustParseAddr("10.1.0.1"),
		netip.MustParseAddr("fd00::1"),
	}, left)
}

func TestResolveReverse(t *testing.T) {
	pool := newPTRPool()
	require.NoError(t, pool.insert(PTRRecord{Addr: netip.MustParseAddr("192.168.1.1"), Name: "router.example.com.", TTL: 10800}))
	require.NoError(t, pool.insert(PTRRecord{Addr: netip.MustParseAddr("fd00::1"), Name: "v6.example.com.", TTL: 10800}))

	zones, err := resolveReverse([]RawReverseNetwork{
		{Prefix: netip.MustParsePrefix("192.168.1.0/24")},
		{Prefix: netip.MustParsePrefix("fd00::/16"), TTL: u32(900)},
	}, testDefaults(), pool)
	require.NoError(t, err)
	require.Len(t, zones, 2)

	v4 := zones[0]
	require.Equal(t, "1.168.192.in-addr.arpa.", v4.Name)
	require.Equal(t, 1, v4.Split)
	require.Equal(t, "hostmaster.example.com.", v4.Email)
	require.Len(t, v4.Nameserver, 2)
	require.Len(t, v4.PTR, 1)
	require.Equal(t, "router.example.com.", v4.PTR[0].Name)

	v6 := zones[1]
	require.Equal(t, "0.0.d.f.ip6.arpa.", v6.Name)
	require.Equal(t, uint32(900), v6.TTL)
	require.Len(t, v6.PTR, 1)
}

func TestResolveReverseOverlap(t *testing.T) {
	_, err := resolveReverse([]RawReverseNetwork{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8")},
		{Prefix: netip.MustParsePrefix("10.1.0.0/16")},
	}, testDefaults(), newPTRPool())
	require.Error(t, err)
	var serr *SemanticError
	require.ErrorAs(t, err, &serr)
	require.Contains(t, err.Error(), "overlap")

	// The same declared twice is an overlap too
	_, err = resolveReverse([]RawReverseNetwork{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8")},
		{Prefix: netip.MustParsePrefix("10.0.0.0/8")},
	}, testDefaults(), newPTRPool())
	require.Error(t, err)

	// Disjoint networks and different families do not conflict
	_, err = resolveReverse([]RawReverseNetwork{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8")},
		{Prefix: netip.MustParsePrefix("192.168.0.0/16")},
		{Prefix: netip.MustParsePrefix("fd00::/16")},
	}, testDefaults(), newPTRPool())
	require.NoError(t, err)
}

func TestResolveReverseOverrides(t *testing.T) {
	// A per-network retry override can break the timer relationship
	_, err := resolveReverse([]RawReverseNetwork{
		{Prefix: netip.MustParsePrefix("10.0.0.0/8"), Retry: u32(90000)},
	}, testDefaults(), newPTRPool())
	require.Error(t, err)
	require.Contains(t, err.Error(), "retry")

	// Per-network email and nameserver replace the defaults
	zones, err := resolveReverse([]RawReverseNetwork{
		{
			Prefix:     netip.MustParsePrefix("10.0.0.0/8"),
			Email:      "noc@example.com",
			Nameserver: []NameserverEntry{{Name: "ns.example.net."}},
		},
	}, testDefaults(), newPTRPool())
	require.NoError(t, err)
	require.Equal(t, "noc.example.com.", zones[0].Email)
	require.Equal(t, []NSRecord{{Name: "ns.example.net.", TTL: 10800}}, zones[0].Nameserver)
}
