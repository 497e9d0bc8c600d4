package zonegen

import (
	"net/netip"
	"strconv"
	"strings"
)

// RawDocument is the canonical form of an input document with every
// polymorphic shape already flattened. Optional fields are pointers (or nil
// slices) so derivation can distinguish "absent" from "set to the zero
// value" when applying defaults.
type RawDocument struct {
	Defaults RawDefaults
	Zones    []RawZone
	Reverse  []RawReverseNetwork
}

// RawDefaults holds the document's global defaults. Fields the document does
// not set carry the built-in fallback values.
type RawDefaults struct {
	Serial     *uint32
	Email      string // validated literal, "" when absent
	Expire     uint32
	MX         []MXEntry
	MXPrio     uint16
	Nameserver []string
	NrcTTL     uint32
	Refresh    uint32
	Retry      uint32
	SrvPrio    uint16
	SrvWeight  uint16
	TTL        uint32
	WithPTR    bool
}

// NameserverEntry is one declared nameserver, either a bare name or a table
// with a per-record TTL.
type NameserverEntry struct {
	Name string
	TTL  *uint32
}

// MXEntry is one declared mail exchanger.
type MXEntry struct {
	Name string
	Prio *uint16
	TTL  *uint32
}

// HostEntry is one declared host with its addresses and optional aliases.
type HostEntry struct {
	Name    string
	IPs     []netip.Addr
	Aliases []string
	TTL     *uint32
	WithPTR *bool
}

// CNAMEEntry is one declared alias record.
type CNAMEEntry struct {
	Name   string
	Target string
	TTL    *uint32
}

// SRVEntry is one declared service record. The name has already passed the
// "_service._proto" shape check.
type SRVEntry struct {
	Name   string
	Target string
	Port   uint16
	Prio   *uint16
	Weight *uint16
	TTL    *uint32
}

// RawZone is one forward zone declaration, identical for the name-keyed map
// and the array-with-name notations.
type RawZone struct {
	Name       string
	Serial     *uint32
	Email      string
	Expire     *uint32
	Nameserver []NameserverEntry
	NrcTTL     *uint32
	Refresh    *uint32
	Retry      *uint32
	TTL        *uint32
	MX         []MXEntry
	MXPrio     *uint16
	SrvPrio    *uint16
	SrvWeight  *uint16
	WithPTR    *bool
	Hosts      []HostEntry
	CNAMEs     []CNAMEEntry
	SRVs       []SRVEntry
}

// RawReverseNetwork is one declared reverse network with optional per-network
// overrides.
type RawReverseNetwork struct {
	Prefix     netip.Prefix
	Serial     *uint32
	Email      string
	Expire     *uint32
	Nameserver []NameserverEntry
	NrcTTL     *uint32
	Refresh    *uint32
	Retry      *uint32
	TTL        *uint32
}

// Built-in fallbacks applied when the document's defaults table omits a field.
const (
	defaultExpire    uint32 = 3600000
	defaultMXPrio    uint16 = 10
	defaultNrcTTL    uint32 = 3600
	defaultRefresh   uint32 = 86400
	defaultRetry     uint32 = 7200
	defaultSRVPrio   uint16 = 0
	defaultSRVWeight uint16 = 5
	defaultTTL       uint32 = 10800
	defaultWithPTR   bool   = true
)

const maxTTL = 2147483647

func decodeDocument(text string, dialect Dialect) (*RawDocument, error) {
	var root *value
	var err error
	switch dialect {
	case TOML:
		root, err = tomlTree(text)
	case YAML:
		root, err = yamlTree(text)
	default:
		return nil, &DecodeError{Dialect: dialect, Reason: "unsupported input dialect"}
	}
	if err != nil {
		return nil, err
	}
	d := &docDecoder{dialect: dialect}
	return d.document(root)
}

// docDecoder walks the canonical value tree into a RawDocument, tracking the
// field path for error reporting.
type docDecoder struct {
	dialect Dialect
}

func (d *docDecoder) errf(v *value, path []string, reason string) *DecodeError {
	e := &DecodeError{Dialect: d.dialect, Path: strings.Join(path, "."), Reason: reason}
	if v != nil {
		e.Line = v.line
		e.Column = v.column
	}
	return e
}

func (d *docDecoder) document(root *value) (*RawDocument, error) {
	if root.kind != tableValue {
		return nil, d.errf(root, nil, "document must be a table")
	}
	doc := &RawDocument{
		Defaults: RawDefaults{
			Expire:    defaultExpire,
			MXPrio:    defaultMXPrio,
			NrcTTL:    defaultNrcTTL,
			Refresh:   defaultRefresh,
			Retry:     defaultRetry,
			SrvPrio:   defaultSRVPrio,
			SrvWeight: defaultSRVWeight,
			TTL:       defaultTTL,
			WithPTR:   defaultWithPTR,
		},
	}
	for _, k := range root.keys {
		kv := root.table[k]
		kp := []string{k}
		var err error
		switch k {
		case "defaults":
			err = d.defaults(kv, kp, &doc.Defaults)
		case "zone":
			doc.Zones, err = d.zones(kv, kp)
		case "reverse":
			doc.Reverse, err = d.reverseNetworks(kv, kp)
		default:
			err = d.errf(kv, kp, "unknown field '"+k+"'")
		}
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (d *docDecoder) defaults(v *value, path []string, def *RawDefaults) error {
	if v.kind != tableValue {
		return d.errf(v, path, "defaults must be a table")
	}
	for _, k := range v.keys {
		kv := v.table[k]
		kp := append(path, k)
		var err error
		switch k {
		case "serial":
			def.Serial, err = d.serial(kv, kp)
		case "email":
			def.Email, err = d.email(kv, kp)
		case "expire":
			def.Expire, err = d.uint32Val(kv, kp)
		case "mx":
			def.MX, err = d.mxEntries(kv, kp)
		case "mx-prio":
			def.MXPrio, err = d.uint16Val(kv, kp)
		case "nameserver":
			def.Nameserver, err = d.stringList(kv, kp)
		case "nrc-ttl":
			def.NrcTTL, err = d.uint32Val(kv, kp)
		case "refresh":
			def.Refresh, err = d.uint32Val(kv, kp)
		case "retry":
			def.Retry, err = d.uint32Val(kv, kp)
		case "srv-prio":
			def.SrvPrio, err = d.uint16Val(kv, kp)
		case "srv-weight":
			def.SrvWeight, err = d.uint16Val(kv, kp)
		case "ttl":
			def.TTL, err = d.ttlVal(kv, kp)
		case "with-ptr":
			def.WithPTR, err = d.boolVal(kv, kp)
		default:
			err = d.errf(kv, kp, "unknown field '"+k+"'")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// zones accepts the two equivalent notations, a name-keyed map of zone tables
// or an array of zone tables each carrying its own name, and normalizes both
// into one list.
func (d *docDecoder) zones(v *value, path []string) ([]RawZone, error) {
	var zones []RawZone
	switch v.kind {
	case tableValue:
		for _, name := range v.keys {
			z, err := d.zone(v.table[name], append(path, name), name)
			if err != nil {
				return nil, err
			}
			zones = append(zones, z)
		}
	case listValue:
		for i, e := range v.list {
			kp := append(path, "["+itoa(i)+"]")
			if e.kind != tableValue {
				return nil, d.errf(e, kp, "zone must be a table")
			}
			if _, ok := e.table["name"]; !ok {
				return nil, d.errf(e, kp, "zone in array notation needs a 'name' field")
			}
			z, err := d.zone(e, kp, "")
			if err != nil {
				return nil, err
			}
			zones = append(zones, z)
		}
	default:
		return nil, d.errf(v, path, "expected a map of zones or an array of zones with a 'name' field")
	}
	return zones, nil
}

// zone decodes one zone table. A non-empty name means map notation, where a
// 'name' field inside the table is not allowed.
func (d *docDecoder) zone(v *value, path []string, name string) (RawZone, error) {
	z := RawZone{Name: name}
	if v.kind != tableValue {
		return z, d.errf(v, path, "zone must be a table")
	}
	for _, k := range v.keys {
		kv := v.table[k]
		kp := append(path, k)
		var err error
		switch k {
		case "name":
			if name != "" {
				return z, d.errf(kv, kp, "unknown field 'name'")
			}
			z.Name, err = d.str(kv, kp)
		case "serial":
			z.Serial, err = d.serial(kv, kp)
		case "email":
			z.Email, err = d.str(kv, kp)
		case "expire":
			z.Expire, err = d.uint32Ptr(kv, kp)
		case "nameserver":
			z.Nameserver, err = d.nameserverEntries(kv, kp)
		case "nrc-ttl":
			z.NrcTTL, err = d.uint32Ptr(kv, kp)
		case "refresh":
			z.Refresh, err = d.uint32Ptr(kv, kp)
		case "retry":
			z.Retry, err = d.uint32Ptr(kv, kp)
		case "ttl":
			z.TTL, err = d.ttlPtr(kv, kp)
		case "mx":
			z.MX, err = d.mxEntries(kv, kp)
		case "mx-prio":
			z.MXPrio, err = d.uint16Ptr(kv, kp)
		case "srv-prio":
			z.SrvPrio, err = d.uint16Ptr(kv, kp)
		case "srv-weight":
			z.SrvWeight, err = d.uint16Ptr(kv, kp)
		case "with-ptr":
			z.WithPTR, err = d.boolPtr(kv, kp)
		case "hosts":
			z.Hosts, err = d.hostEntries(kv, kp)
		case "cname":
			z.CNAMEs, err = d.cnameEntries(kv, kp)
		case "srv":
			z.SRVs, err = d.srvEntries(kv, kp)
		default:
			err = d.errf(kv, kp, "unknown field '"+k+"'")
		}
		if err != nil {
			return z, err
		}
	}
	return z, nil
}

// reverseNetworks accepts a single network, a list of networks, or a map of
// network to a table of per-network overrides.
func (d *docDecoder) reverseNetworks(v *value, path []string) ([]RawReverseNetwork, error) {
	var nets []RawReverseNetwork
	switch v.kind {
	case stringValue:
		p, err := d.prefix(v, path)
		if err != nil {
			return nil, err
		}
		nets = append(nets, RawReverseNetwork{Prefix: p})
	case listValue:
		for i, e := range v.list {
			p, err := d.prefix(e, append(path, "["+itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			nets = append(nets, RawReverseNetwork{Prefix: p})
		}
	case tableValue:
		for _, k := range v.keys {
			kv := v.table[k]
			kp := append(path, k)
			p, err := netip.ParsePrefix(k)
			if err != nil {
				return nil, d.errf(kv, kp, "'"+k+"' is not a valid IP network")
			}
			n, err := d.reverseEntry(kv, kp)
			if err != nil {
				return nil, err
			}
			n.Prefix = prefixUnmapped(p)
			nets = append(nets, n)
		}
	default:
		return nil, d.errf(v, path, "expected a network, an array of networks, or a map of networks to reverse zone entries")
	}
	return nets, nil
}

func (d *docDecoder) reverseEntry(v *value, path []string) (RawReverseNetwork, error) {
	var n RawReverseNetwork
	if v.kind != tableValue {
		return n, d.errf(v, path, "reverse zone entry must be a table")
	}
	for _, k := range v.keys {
		kv := v.table[k]
		kp := append(path, k)
		var err error
		switch k {
		case "serial":
			n.Serial, err = d.serial(kv, kp)
		case "email":
			n.Email, err = d.str(kv, kp)
		case "expire":
			n.Expire, err = d.uint32Ptr(kv, kp)
		case "nameserver":
			n.Nameserver, err = d.nameserverEntries(kv, kp)
		case "nrc-ttl":
			n.NrcTTL, err = d.uint32Ptr(kv, kp)
		case "refresh":
			n.Refresh, err = d.uint32Ptr(kv, kp)
		case "retry":
			n.Retry, err = d.uint32Ptr(kv, kp)
		case "ttl":
			n.TTL, err = d.ttlPtr(kv, kp)
		default:
			err = d.errf(kv, kp, "unknown field '"+k+"'")
		}
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// nameserverEntries flattens scalar-or-list of string-or-table into a list.
func (d *docDecoder) nameserverEntries(v *value, path []string) ([]NameserverEntry, error) {
	items := v.list
	if v.kind != listValue {
		items = []*value{v}
	}
	entries := make([]NameserverEntry, 0, len(items))
	for i, e := range items {
		kp := path
		if v.kind == listValue {
			kp = append(path, "["+itoa(i)+"]")
		}
		switch e.kind {
		case stringValue:
			entries = append(entries, NameserverEntry{Name: e.str})
		case tableValue:
			entry := NameserverEntry{}
			seen := false
			for _, k := range e.keys {
				kv := e.table[k]
				ep := append(kp, k)
				var err error
				switch k {
				case "name":
					entry.Name, err = d.str(kv, ep)
					seen = true
				case "ttl":
					entry.TTL, err = d.ttlPtr(kv, ep)
				default:
					err = d.errf(kv, ep, "unknown field '"+k+"'")
				}
				if err != nil {
					return nil, err
				}
			}
			if !seen {
				return nil, d.errf(e, kp, "nameserver entry needs a 'name' field")
			}
			entries = append(entries, entry)
		default:
			return nil, d.errf(e, kp, "expected a name or a table, got "+e.kind.String())
		}
	}
	return entries, nil
}

// mxEntries flattens scalar-or-list of string-or-table into a list.
func (d *docDecoder) mxEntries(v *value, path []string) ([]MXEntry, error) {
	items := v.list
	if v.kind != listValue {
		items = []*value{v}
	}
	entries := make([]MXEntry, 0, len(items))
	for i, e := range items {
		kp := path
		if v.kind == listValue {
			kp = append(path, "["+itoa(i)+"]")
		}
		switch e.kind {
		case stringValue:
			entries = append(entries, MXEntry{Name: e.str})
		case tableValue:
			entry := MXEntry{}
			seen := false
			for _, k := range e.keys {
				kv := e.table[k]
				ep := append(kp, k)
				var err error
				switch k {
				case "name":
					entry.Name, err = d.str(kv, ep)
					seen = true
				case "prio":
					entry.Prio, err = d.uint16Ptr(kv, ep)
				case "ttl":
					entry.TTL, err = d.ttlPtr(kv, ep)
				default:
					err = d.errf(kv, ep, "unknown field '"+k+"'")
				}
				if err != nil {
					return nil, err
				}
			}
			if !seen {
				return nil, d.errf(e, kp, "mx entry needs a 'name' field")
			}
			entries = append(entries, entry)
		default:
			return nil, d.errf(e, kp, "expected a name or a table, got "+e.kind.String())
		}
	}
	return entries, nil
}

// hostEntries decodes the hosts table. Each value is a bare IP, a list of
// IPs, or a table with an 'ip' field plus options.
func (d *docDecoder) hostEntries(v *value, path []string) ([]HostEntry, error) {
	if v.kind != tableValue {
		return nil, d.errf(v, path, "hosts must be a table")
	}
	var entries []HostEntry
	for _, name := range v.keys {
		e := v.table[name]
		kp := append(path, name)
		entry := HostEntry{Name: name}
		switch e.kind {
		case stringValue, listValue:
			ips, err := d.addrList(e, kp)
			if err != nil {
				return nil, err
			}
			entry.IPs = ips
		case tableValue:
			for _, k := range e.keys {
				kv := e.table[k]
				ep := append(kp, k)
				var err error
				switch k {
				case "ip":
					entry.IPs, err = d.addrList(kv, ep)
				case "alias":
					entry.Aliases, err = d.stringList(kv, ep)
				case "ttl":
					entry.TTL, err = d.ttlPtr(kv, ep)
				case "with-ptr":
					entry.WithPTR, err = d.boolPtr(kv, ep)
				default:
					err = d.errf(kv, ep, "unknown field '"+k+"'")
				}
				if err != nil {
					return nil, err
				}
			}
			if entry.IPs == nil {
				return nil, d.errf(e, kp, "host entry needs an 'ip' field")
			}
		default:
			return nil, d.errf(e, kp, "expected an IP address, an array of IP addresses, or a table with an 'ip' field")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// cnameEntries decodes the cname table. Each value is either the target name
// or a table with a 'target' field and an optional TTL.
func (d *docDecoder) cnameEntries(v *value, path []string) ([]CNAMEEntry, error) {
	if v.kind != tableValue {
		return nil, d.errf(v, path, "cname must be a table")
	}
	var entries []CNAMEEntry
	for _, name := range v.keys {
		e := v.table[name]
		kp := append(path, name)
		entry := CNAMEEntry{Name: name}
		switch e.kind {
		case stringValue:
			entry.Target = e.str
		case tableValue:
			seen := false
			for _, k := range e.keys {
				kv := e.table[k]
				ep := append(kp, k)
				var err error
				switch k {
				case "target":
					entry.Target, err = d.str(kv, ep)
					seen = true
				case "ttl":
					entry.TTL, err = d.ttlPtr(kv, ep)
				default:
					err = d.errf(kv, ep, "unknown field '"+k+"'")
				}
				if err != nil {
					return nil, err
				}
			}
			if !seen {
				return nil, d.errf(e, kp, "cname entry needs a 'target' field")
			}
		default:
			return nil, d.errf(e, kp, "expected a target name or a table, got "+e.kind.String())
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// srvEntries decodes the srv table. Keys must follow the
// "_service._proto[.suffix]" convention, which is checked here so a bad key
// is reported with its document path.
func (d *docDecoder) srvEntries(v *value, path []string) ([]SRVEntry, error) {
	if v.kind != tableValue {
		return nil, d.errf(v, path, "srv must be a table")
	}
	var entries []SRVEntry
	for _, name := range v.keys {
		e := v.table[name]
		kp := append(path, name)
		if reason := srvNameShape(name); reason != "" {
			return nil, d.errf(e, kp, reason)
		}
		if e.kind != tableValue {
			return nil, d.errf(e, kp, "expected a table with 'target' and 'port' fields")
		}
		entry := SRVEntry{Name: name}
		var seenTarget, seenPort bool
		for _, k := range e.keys {
			kv := e.table[k]
			ep := append(kp, k)
			var err error
			switch k {
			case "target":
				entry.Target, err = d.str(kv, ep)
				seenTarget = true
			case "port":
				entry.Port, err = d.uint16Val(kv, ep)
				seenPort = true
			case "prio":
				entry.Prio, err = d.uint16Ptr(kv, ep)
			case "weight":
				entry.Weight, err = d.uint16Ptr(kv, ep)
			case "ttl":
				entry.TTL, err = d.ttlPtr(kv, ep)
			default:
				err = d.errf(kv, ep, "unknown field '"+k+"'")
			}
			if err != nil {
				return nil, err
			}
		}
		if !seenTarget || !seenPort {
			return nil, d.errf(e, kp, "srv entry needs 'target' and 'port' fields")
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Scalar helpers. They produce decode errors naming the expected shape.

func (d *docDecoder) str(v *value, path []string) (string, error) {
	if v.kind != stringValue {
		return "", d.errf(v, path, "expected a string, got "+v.kind.String())
	}
	return v.str, nil
}

func (d *docDecoder) boolVal(v *value, path []string) (bool, error) {
	if v.kind != boolValue {
		return false, d.errf(v, path, "expected a boolean, got "+v.kind.String())
	}
	return v.b, nil
}

func (d *docDecoder) boolPtr(v *value, path []string) (*bool, error) {
	b, err := d.boolVal(v, path)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (d *docDecoder) uint32Val(v *value, path []string) (uint32, error) {
	if v.kind != intValue {
		return 0, d.errf(v, path, "expected an integer, got "+v.kind.String())
	}
	if v.num < 0 || v.num > 4294967295 {
		return 0, d.errf(v, path, "value out of range (0-4294967295)")
	}
	return uint32(v.num), nil
}

func (d *docDecoder) uint32Ptr(v *value, path []string) (*uint32, error) {
	n, err := d.uint32Val(v, path)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (d *docDecoder) serial(v *value, path []string) (*uint32, error) {
	return d.uint32Ptr(v, path)
}

func (d *docDecoder) uint16Val(v *value, path []string) (uint16, error) {
	if v.kind != intValue {
		return 0, d.errf(v, path, "expected an integer, got "+v.kind.String())
	}
	if v.num < 0 || v.num > 65535 {
		return 0, d.errf(v, path, "value out of range (0-65535)")
	}
	return uint16(v.num), nil
}

func (d *docDecoder) uint16Ptr(v *value, path []string) (*uint16, error) {
	n, err := d.uint16Val(v, path)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (d *docDecoder) ttlVal(v *value, path []string) (uint32, error) {
	if v.kind != intValue {
		return 0, d.errf(v, path, "expected a positive TTL value (1-2147483647)")
	}
	if v.num == 0 {
		return 0, d.errf(v, path, "TTL cannot be zero")
	}
	if v.num < 0 {
		return 0, d.errf(v, path, "TTL cannot be negative")
	}
	if v.num > maxTTL {
		return 0, d.errf(v, path, "TTL too large (max 2147483647)")
	}
	return uint32(v.num), nil
}

func (d *docDecoder) ttlPtr(v *value, path []string) (*uint32, error) {
	n, err := d.ttlVal(v, path)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// email decodes and syntax-checks an email literal. Bad defaults are rejected
// here so the error carries the document path, the same literal is encoded
// into SOA form later during resolution.
func (d *docDecoder) email(v *value, path []string) (string, error) {
	s, err := d.str(v, path)
	if err != nil {
		return "", err
	}
	if err := validateEmail(s); err != nil {
		return "", d.errf(v, path, err.Error())
	}
	return s, nil
}

// stringList flattens a scalar-or-list of strings.
func (d *docDecoder) stringList(v *value, path []string) ([]string, error) {
	switch v.kind {
	case stringValue:
		return []string{v.str}, nil
	case listValue:
		list := make([]string, 0, len(v.list))
		for i, e := range v.list {
			s, err := d.str(e, append(path, "["+itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, d.errf(v, path, "expected a string or an array of strings, got "+v.kind.String())
	}
}

// addrList flattens a scalar-or-list of IP addresses.
func (d *docDecoder) addrList(v *value, path []string) ([]netip.Addr, error) {
	switch v.kind {
	case stringValue:
		a, err := d.addr(v, path)
		if err != nil {
			return nil, err
		}
		return []netip.Addr{a}, nil
	case listValue:
		list := make([]netip.Addr, 0, len(v.list))
		for i, e := range v.list {
			a, err := d.addr(e, append(path, "["+itoa(i)+"]"))
			if err != nil {
				return nil, err
			}
			list = append(list, a)
		}
		return list, nil
	default:
		return nil, d.errf(v, path, "expected an IP address or an array of IP addresses, got "+v.kind.String())
	}
}

func (d *docDecoder) addr(v *value, path []string) (netip.Addr, error) {
	s, err := d.str(v, path)
	if err != nil {
		return netip.Addr{}, err
	}
	a, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, d.errf(v, path, "'"+s+"' is not a valid IP address")
	}
	return a.Unmap(), nil
}

func (d *docDecoder) prefix(v *value, path []string) (netip.Prefix, error) {
	s, err := d.str(v, path)
	if err != nil {
		return netip.Prefix{}, err
	}
	p, err := netip.ParsePrefix(s)
	if err != nil {
		return netip.Prefix{}, d.errf(v, path, "'"+s+"' is not a valid IP network")
	}
	return prefixUnmapped(p), nil
}

func prefixUnmapped(p netip.Prefix) netip.Prefix {
	return netip.PrefixFrom(p.Addr().Unmap(), p.Bits())
}

func itoa(i int) string { return strconv.Itoa(i) }
