package zonegen

import (
	"fmt"
	"net/netip"
	"sort"
	"strconv"
	"strings"
)

// ptrPool collects PTR candidates across all forward zones, keyed by address.
// It is built once and then drained by the reverse zones claiming their
// networks, each address is inserted at most once and claimed at most once.
type ptrPool struct {
	records map[netip.Addr]PTRRecord
}

func newPTRPool() *ptrPool {
	return &ptrPool{records: map[netip.Addr]PTRRecord{}}
}

// insert adds a candidate. A second candidate for the same address is a
// cross-zone conflict and fatal.
func (p *ptrPool) insert(r PTRRecord) error {
	if existing, ok := p.records[r.Addr]; ok {
		return &SemanticError{Reason: fmt.Sprintf(
			"duplicate PTR record for %s: '%s' and '%s'", r.Addr, existing.Name, r.Name)}
	}
	p.records[r.Addr] = r
	return nil
}

// claim removes and returns every candidate inside the given network, sorted
// by address. Claiming is unambiguous since overlapping networks have been
// rejected before any claim happens.
func (p *ptrPool) claim(network netip.Prefix) []PTRRecord {
	var claimed []PTRRecord
	for addr, r := range p.records {
		if network.Contains(addr) {
			claimed = append(claimed, r)
			delete(p.records, addr)
		}
	}
	sort.Slice(claimed, func(i, j int) bool {
		return claimed[i].Addr.Compare(claimed[j].Addr) < 0
	})
	return claimed
}

// unclaimed returns the addresses left in the pool, sorted, for diagnostics.
func (p *ptrPool) unclaimed() []netip.Addr {
	addrs := make([]netip.Addr, 0, len(p.records))
	for addr := range p.records {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Compare(addrs[j]) < 0 })
	return addrs
}

// reverseZoneName derives the reverse zone name and split count for a
// network. The name is built from the prefix-covered address labels in
// reversed order, whole octets for IPv4 under in-addr.arpa and 4-bit nibbles
// for IPv6 under ip6.arpa. Split counts the label units below the prefix
// boundary, the part of each address that ends up in the record's own name.
// Prefixes not aligned on a unit boundary truncate toward the zone boundary.
func reverseZoneName(network netip.Prefix) (string, int) {
	network = network.Masked()
	if network.Addr().Is4() {
		split := (32 - network.Bits()) / 8
		octets := network.Addr().As4()
		covered := network.Bits() / 8
		parts := make([]string, 0, covered)
		for i := covered - 1; i >= 0; i-- {
			parts = append(parts, strconv.Itoa(int(octets[i])))
		}
		return strings.Join(parts, ".") + ".in-addr.arpa.", split
	}
	split := (128 - network.Bits()) / 4
	bytes := network.Addr().As16()
	covered := network.Bits() / 4
	parts := make([]string, 0, covered)
	for i := covered - 1; i >= 0; i-- {
		parts = append(parts, nibble(bytes, i))
	}
	return strings.Join(parts, ".") + ".ip6.arpa.", split
}

// ipName renders the in-zone part of an address, the reversed labels below
// the zone's prefix boundary. This is the owner name of a PTR record inside
// its reverse zone.
func ipName(addr netip.Addr, split int) string {
	if addr.Is4() {
		octets := addr.As4()
		parts := make([]string, 0, split)
		for i := 0; i < split; i++ {
			parts = append(parts, strconv.Itoa(int(octets[3-i])))
		}
		return strings.Join(parts, ".")
	}
	bytes := addr.As16()
	parts := make([]string, 0, split)
	for i := 0; i < split; i++ {
		parts = append(parts, nibble(bytes, 31-i))
	}
	return strings.Join(parts, ".")
}

// nibble returns the i-th 4-bit group of a 16-byte address as a hex digit,
// counting from the most significant.
func nibble(b [16]byte, i int) string {
	v := b[i/2]
	if i%2 == 0 {
		v >>= 4
	}
	return string("0123456789abcdef"[v&0xf])
}

// resolveReverse turns the declared reverse networks into reverse zones,
// rejecting overlapping networks of the same family and claiming each
// network's PTR candidates from the pool. Timers, email and nameservers
// resolve with the same shallow fallback as forward zones.
func resolveReverse(raw []RawReverseNetwork, defaults *SessionDefaults, pool *ptrPool) ([]ReverseZone, error) {
	var accepted4, accepted6 []netip.Prefix
	var zones []ReverseZone
	for _, entry := range raw {
		network := entry.Prefix.Masked()
		accepted := &accepted4
		if network.Addr().Is6() {
			accepted = &accepted6
		}
		for _, prev := range *accepted {
			if prev.Overlaps(network) {
				return nil, &SemanticError{Reason: fmt.Sprintf(
					"reverse zone networks overlap: %s and %s", network, prev)}
			}
		}
		*accepted = append(*accepted, network)

		name, split := reverseZoneName(network)
		serial := pickU32(entry.Serial, defaults.Serial)
		expire := pickU32(entry.Expire, defaults.Expire)
		nrcTTL := pickU32(entry.NrcTTL, defaults.NrcTTL)
		refresh := pickU32(entry.Refresh, defaults.Refresh)
		retry := pickU32(entry.Retry, defaults.Retry)
		ttl := pickU32(entry.TTL, defaults.TTL)

		if retry >= refresh {
			return nil, &ValidationError{
				Zone:   name,
				Reason: fmt.Sprintf("retry (%d) must be less than refresh (%d)", retry, refresh),
			}
		}

		email, err := resolveEmail(entry.Email, defaults, name)
		if err != nil {
			return nil, err
		}
		ns, err := resolveNS(entry.Nameserver, name, ttl, defaults.Nameserver)
		if err != nil {
			return nil, err
		}

		zones = append(zones, ReverseZone{
			ZoneBase: ZoneBase{
				Serial:     serial,
				Name:       name,
				Email:      email,
				Expire:     expire,
				Nameserver: ns,
				NrcTTL:     nrcTTL,
				Refresh:    refresh,
				Retry:      retry,
				TTL:        ttl,
			},
			PTR:   pool.claim(network),
			Split: split,
		})
	}
	return zones, nil
}
