package zonegen

import (
	"net/netip"
)

// NSRecord is a resolved nameserver record.
type NSRecord struct {
	Name string
	TTL  uint32
}

// MXRecord is a resolved mail exchanger record.
type MXRecord struct {
	Prio uint16
	Name string
	TTL  uint32
}

// ARecord is a resolved address record, A or AAAA depending on the address
// family.
type ARecord struct {
	Name string
	Addr netip.Addr
	TTL  uint32
}

// CNAMERecord is a resolved alias record.
type CNAMERecord struct {
	Name   string
	Target string
	TTL    uint32
}

// SRVRecord is a resolved service record.
type SRVRecord struct {
	Name   string
	Prio   uint16
	Weight uint16
	Port   uint16
	Target string
	TTL    uint32
}

// PTRRecord is a resolved reverse pointer record.
type PTRRecord struct {
	Addr netip.Addr
	Name string
	TTL  uint32
}

// ZoneBase holds the values common to forward and reverse zones: the SOA
// fields and the zone's nameservers. Every name is fully qualified and every
// default has been applied by the time a ZoneBase leaves resolution.
type ZoneBase struct {
	Serial     uint32
	Name       string
	Email      string
	Expire     uint32
	Nameserver []NSRecord
	NrcTTL     uint32
	Refresh    uint32
	Retry      uint32
	TTL        uint32
}

// ForwardZone is a fully resolved forward zone. Hosts are ordered with the
// zone apex first, then by name and address.
type ForwardZone struct {
	ZoneBase
	MX    []MXRecord
	Hosts []ARecord
	CNAME []CNAMERecord
	SRV   []SRVRecord
}

// ReverseZone is a fully resolved reverse zone. Split is the number of
// address label units (octets for IPv4, nibbles for IPv6) below the zone's
// prefix boundary, i.e. the part of each address that appears in the record's
// own name rather than the zone name. PTR records are ordered by address.
type ReverseZone struct {
	ZoneBase
	PTR   []PTRRecord
	Split int
}
