package zonegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/miekg/dns"
)

// resolveForward turns one raw zone declaration into a fully resolved forward
// zone plus the PTR candidates its hosts contribute to the shared pool.
// Every timer and priority applies the zone's own value if present, falling
// back to the session default.
func resolveForward(raw RawZone, defaults *SessionDefaults) (ForwardZone, []PTRRecord, error) {
	zoneName := dns.Fqdn(strings.TrimSpace(raw.Name))

	serial := pickU32(raw.Serial, defaults.Serial)
	expire := pickU32(raw.Expire, defaults.Expire)
	mxPrio := pickU16(raw.MXPrio, defaults.MXPrio)
	nrcTTL := pickU32(raw.NrcTTL, defaults.NrcTTL)
	refresh := pickU32(raw.Refresh, defaults.Refresh)
	retry := pickU32(raw.Retry, defaults.Retry)
	srvPrio := pickU16(raw.SrvPrio, defaults.SrvPrio)
	srvWeight := pickU16(raw.SrvWeight, defaults.SrvWeight)
	ttl := pickU32(raw.TTL, defaults.TTL)
	withPTR := pickBool(raw.WithPTR, defaults.WithPTR)

	// A zone-level override can reintroduce a violation the defaults
	// already satisfied, so this is checked again per zone.
	if retry >= refresh {
		return ForwardZone{}, nil, &ValidationError{
			Zone:   zoneName,
			Reason: fmt.Sprintf("retry (%d) must be less than refresh (%d)", retry, refresh),
		}
	}

	email, err := resolveEmail(raw.Email, defaults, zoneName)
	if err != nil {
		return ForwardZone{}, nil, err
	}

	hosts, ptrs, err := resolveHosts(raw.Hosts, zoneName, ttl, withPTR)
	if err != nil {
		return ForwardZone{}, nil, err
	}
	mx, err := resolveMX(raw.MX, zoneName, ttl, mxPrio, defaults.MX)
	if err != nil {
		return ForwardZone{}, nil, err
	}
	ns, err := resolveNS(raw.Nameserver, zoneName, ttl, defaults.Nameserver)
	if err != nil {
		return ForwardZone{}, nil, err
	}
	cname, err := resolveCNAME(raw.CNAMEs, zoneName, ttl)
	if err != nil {
		return ForwardZone{}, nil, err
	}
	srv, err := resolveSRV(raw.SRVs, zoneName, ttl, srvPrio, srvWeight)
	if err != nil {
		return ForwardZone{}, nil, err
	}

	return ForwardZone{
		ZoneBase: ZoneBase{
			Serial:     serial,
			Name:       zoneName,
			Email:      email,
			Expire:     expire,
			Nameserver: ns,
			NrcTTL:     nrcTTL,
			Refresh:    refresh,
			Retry:      retry,
			TTL:        ttl,
		},
		MX:    mx,
		Hosts: hosts,
		CNAME: cname,
		SRV:   srv,
	}, ptrs, nil
}

// resolveEmail picks the zone's own email, falling back to the session
// default. Having neither is fatal.
func resolveEmail(raw string, defaults *SessionDefaults, zone string) (string, error) {
	if raw != "" {
		email, err := parseEmail(raw)
		if err != nil {
			return "", annotate(err, zone, "email")
		}
		return email, nil
	}
	if defaults.Email == "" {
		return "", &SemanticError{Zone: zone, Reason: "email is required and no default email is set"}
	}
	return defaults.Email, nil
}

// resolveHosts derives one A/AAAA record per host address, plus one per alias
// at the same address. Addresses of hosts with with-ptr (and a non-wildcard
// name) also yield PTR candidates for the shared pool. Hosts are ordered with
// the zone apex first, then by name and address.
func resolveHosts(raw []HostEntry, zone string, zoneTTL uint32, zoneWithPTR bool) ([]ARecord, []PTRRecord, error) {
	var records []ARecord
	var ptrs []PTRRecord
	for _, entry := range raw {
		fqdn, err := parseHostName(entry.Name, zone)
		if err != nil {
			return nil, nil, annotate(err, zone, "hosts."+entry.Name)
		}
		ttl := pickU32(entry.TTL, zoneTTL)
		withPTR := pickBool(entry.WithPTR, zoneWithPTR)
		for _, addr := range entry.IPs {
			records = append(records, ARecord{Name: fqdn, Addr: addr, TTL: ttl})
			for _, alias := range entry.Aliases {
				name, err := parseHostName(alias, zone)
				if err != nil {
					return nil, nil, annotate(err, zone, "hosts."+entry.Name+".alias")
				}
				records = append(records, ARecord{Name: name, Addr: addr, TTL: ttl})
			}
			if withPTR && !strings.HasPrefix(fqdn, "*") {
				ptrs = append(ptrs, PTRRecord{Addr: addr, Name: fqdn, TTL: ttl})
			}
		}
	}
	sortHosts(records, zone)
	return records, ptrs, nil
}

// sortHosts orders address records apex-first, then by name, then by address.
func sortHosts(records []ARecord, zone string) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		aApex, bApex := a.Name == zone, b.Name == zone
		if aApex != bApex {
			return aApex
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Addr.Compare(b.Addr) < 0
	})
}

// resolveMX derives the zone's MX records. A declared list fully replaces the
// default one, there is no merging. Default entries are used as-is since they
// belong to no zone.
func resolveMX(raw []MXEntry, zone string, zoneTTL uint32, zoneMXPrio uint16, defaultMX []MXEntry) ([]MXRecord, error) {
	if raw == nil {
		records := make([]MXRecord, 0, len(defaultMX))
		for _, entry := range defaultMX {
			records = append(records, MXRecord{
				Prio: pickU16(entry.Prio, zoneMXPrio),
				Name: entry.Name,
				TTL:  pickU32(entry.TTL, zoneTTL),
			})
		}
		return records, nil
	}
	records := make([]MXRecord, 0, len(raw))
	for _, entry := range raw {
		fqdn, err := parseHostName(entry.Name, zone)
		if err != nil {
			return nil, annotate(err, zone, "mx")
		}
		if err := validateDNSName(fqdn); err != nil {
			return nil, annotate(err, zone, "mx")
		}
		records = append(records, MXRecord{
			Prio: pickU16(entry.Prio, zoneMXPrio),
			Name: fqdn,
			TTL:  pickU32(entry.TTL, zoneTTL),
		})
	}
	return records, nil
}

// resolveNS derives the zone's NS records, falling back to the default
// nameserver list. A zone without any nameserver is fatal.
func resolveNS(raw []NameserverEntry, zone string, zoneTTL uint32, defaultNS []string) ([]NSRecord, error) {
	var records []NSRecord
	if raw == nil {
		for _, name := range defaultNS {
			records = append(records, NSRecord{Name: name, TTL: zoneTTL})
		}
	} else {
		for _, entry := range raw {
			fqdn, err := parseHostName(entry.Name, zone)
			if err != nil {
				return nil, annotate(err, zone, "nameserver")
			}
			if err := validateDNSName(fqdn); err != nil {
				return nil, annotate(err, zone, "nameserver")
			}
			records = append(records, NSRecord{Name: fqdn, TTL: pickU32(entry.TTL, zoneTTL)})
		}
	}
	if len(records) == 0 {
		return nil, &SemanticError{Zone: zone, Reason: "zone needs at least one nameserver"}
	}
	return records, nil
}

// resolveCNAME derives alias records, qualifying source and target
// independently against the zone.
func resolveCNAME(raw []CNAMEEntry, zone string, zoneTTL uint32) ([]CNAMERecord, error) {
	var records []CNAMERecord
	for _, entry := range raw {
		name, err := parseHostName(entry.Name, zone)
		if err != nil {
			return nil, annotate(err, zone, "cname."+entry.Name)
		}
		target, err := parseHostName(entry.Target, zone)
		if err != nil {
			return nil, annotate(err, zone, "cname."+entry.Name)
		}
		records = append(records, CNAMERecord{Name: name, Target: target, TTL: pickU32(entry.TTL, zoneTTL)})
	}
	return records, nil
}

// resolveSRV derives service records. The key shape was already checked at
// decode time, parseSRVName re-checks it so the invariant holds on every
// call path.
func resolveSRV(raw []SRVEntry, zone string, zoneTTL uint32, zonePrio, zoneWeight uint16) ([]SRVRecord, error) {
	var records []SRVRecord
	for _, entry := range raw {
		name, err := parseSRVName(entry.Name, zone)
		if err != nil {
			return nil, annotate(err, zone, "srv."+entry.Name)
		}
		target, err := parseHostName(entry.Target, zone)
		if err != nil {
			return nil, annotate(err, zone, "srv."+entry.Name)
		}
		records = append(records, SRVRecord{
			Name:   name,
			Prio:   pickU16(entry.Prio, zonePrio),
			Weight: pickU16(entry.Weight, zoneWeight),
			Port:   entry.Port,
			Target: target,
			TTL:    pickU32(entry.TTL, zoneTTL),
		})
	}
	return records, nil
}
