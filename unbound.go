package zonegen

import (
	"fmt"
	"strings"
)

// Column width for the name field in unbound output.
const unboundColumnWidth = 46

// ttlColumn renders a record's TTL, omitting it when it matches the zone TTL.
func ttlColumn(recordTTL, zoneTTL uint32) string {
	if recordTTL == zoneTTL {
		return ""
	}
	return fmt.Sprintf("%d", recordTTL)
}

// RenderUnbound formats the resolved zones as an unbound server
// configuration using local-zone/local-data directives. It only formats, the
// model is fully validated and ordered by the time it gets here.
func RenderUnbound(forward []ForwardZone, reverse []ReverseZone) string {
	b := new(strings.Builder)
	fmt.Fprintln(b, "server:")

	for _, zone := range forward {
		name := zone.Name
		zoneTTL := zone.TTL
		fmt.Fprintf(b, "local-zone:  %s static\n", name)
		ttl := fmt.Sprintf("%d", zoneTTL)
		fmt.Fprintf(b, "local-data: \"%-*s %s IN SOA  %s %s %d %d %d %d %d\"\n",
			unboundColumnWidth-len(ttl), name, ttl,
			zone.Nameserver[0].Name, zone.Email, zone.Serial, zone.Refresh, zone.Retry, zone.Expire, zone.NrcTTL)

		for _, ns := range zone.Nameserver {
			ttl := ttlColumn(ns.TTL, zoneTTL)
			fmt.Fprintf(b, "local-data: \"%-*s %s IN NS   %s\"\n",
				unboundColumnWidth-len(ttl), name, ttl, ns.Name)
		}
		for _, mx := range zone.MX {
			ttl := ttlColumn(mx.TTL, zoneTTL)
			fmt.Fprintf(b, "local-data: \"%-*s %s IN MX   %d %s\"\n",
				unboundColumnWidth-len(ttl), name, ttl, mx.Prio, mx.Name)
		}
		for _, host := range zone.Hosts {
			ttl := ttlColumn(host.TTL, zoneTTL)
			rtype := "A   "
			if host.Addr.Is6() {
				rtype = "AAAA"
			}
			fmt.Fprintf(b, "local-data: \"%-*s %s IN %s %s\"\n",
				unboundColumnWidth-len(ttl), host.Name, ttl, rtype, host.Addr)
		}
		for _, srv := range zone.SRV {
			ttl := ttlColumn(srv.TTL, zoneTTL)
			fmt.Fprintf(b, "local-data: \"%-*s %s IN SRV  %d %d %d %s\"\n",
				unboundColumnWidth-len(ttl), srv.Name, ttl, srv.Prio, srv.Weight, srv.Port, srv.Target)
		}
		for _, cname := range zone.CNAME {
			ttl := ttlColumn(cname.TTL, zoneTTL)
			fmt.Fprintf(b, "local-data: \"%-*s %s CNAME   %s\"\n",
				unboundColumnWidth-len(ttl), cname.Name, ttl, cname.Target)
		}
		fmt.Fprintln(b)
	}

	for _, zone := range reverse {
		name := zone.Name
		zoneTTL := zone.TTL
		fmt.Fprintf(b, "local-zone:      %s static\n", name)
		ttl := fmt.Sprintf("%d", zoneTTL)
		fmt.Fprintf(b, "local-data:     \"%-*s %s IN SOA  %s %s %d %d %d %d %d\"\n",
			unboundColumnWidth-len(ttl), name, ttl,
			zone.Nameserver[0].Name, zone.Email, zone.Serial, zone.Refresh, zone.Retry, zone.Expire, zone.NrcTTL)

		for _, ns := range zone.Nameserver {
			ttl := ttlColumn(ns.TTL, zoneTTL)
			fmt.Fprintf(b, "local-data:     \"%-*s %s IN NS   %s\"\n",
				unboundColumnWidth-len(ttl), name, ttl, ns.Name)
		}
		for _, ptr := range zone.PTR {
			ttl := ttlColumn(ptr.TTL, zoneTTL)
			fmt.Fprintf(b, "local-data-ptr: \"%-*s %s %s\"\n",
				unboundColumnWidth-len(ttl), ptr.Addr, ttl, ptr.Name)
		}
		fmt.Fprintln(b)
	}
	return b.String()
}
