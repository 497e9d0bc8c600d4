package zonegen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Column width for the name field in NSD zone files.
const nsdColumnWidth = 32

// nsdLine renders one record line in columnar zone-file layout: owner name,
// optional TTL (omitted when it matches the zone TTL), record type, data.
func nsdLine(owner string, recordTTL, zoneTTL uint32, recordType, data string) string {
	var ownerTTL string
	if recordTTL == zoneTTL {
		ownerTTL = fmt.Sprintf("%-*s", nsdColumnWidth-1, owner)
	} else {
		ttl := fmt.Sprintf("%d", recordTTL)
		ownerTTL = fmt.Sprintf("%-*s %s", nsdColumnWidth-len(ttl)-2, owner, ttl)
	}
	overflow := len(ownerTTL) - nsdColumnWidth - 1
	if overflow < 0 {
		overflow = 0
	}
	typeWidth := 7 - overflow
	if typeWidth < 0 {
		typeWidth = 0
	}
	return fmt.Sprintf("%s %-*s %s\n", ownerTTL, typeWidth, recordType, data)
}

// nsdSOA renders the $ORIGIN/$TTL header, the SOA record and the NS records
// shared by forward and reverse zone files.
func nsdSOA(base ZoneBase) string {
	b := new(strings.Builder)
	indent := strings.Repeat(" ", nsdColumnWidth)

	fmt.Fprintf(b, "$ORIGIN %s\n", base.Name)
	fmt.Fprintf(b, "$TTL %d\n", base.TTL)
	fmt.Fprintln(b)

	fmt.Fprintf(b, "@                            IN SOA     %s %s (\n", base.Nameserver[0].Name, base.Email)
	fmt.Fprintf(b, "%s           %-12d; serial number\n", indent, base.Serial)
	fmt.Fprintf(b, "%s           %-12d; refresh\n", indent, base.Refresh)
	fmt.Fprintf(b, "%s           %-12d; retry\n", indent, base.Retry)
	fmt.Fprintf(b, "%s           %-12d; expire\n", indent, base.Expire)
	fmt.Fprintf(b, "%s           %-12d; min ttl\n", indent, base.NrcTTL)
	fmt.Fprintf(b, "%s        )\n", indent)

	for _, ns := range base.Nameserver {
		b.WriteString(nsdLine("", ns.TTL, base.TTL, "NS", ns.Name))
	}
	return b.String()
}

// stripOwner shortens a fully qualified name to its zone-relative form, "@"
// for the apex.
func stripOwner(name, zone string) string {
	if name == zone {
		return "@"
	}
	return strings.TrimSuffix(name, "."+zone)
}

// renderNSD produces the zones.conf content and one zone file per zone,
// keyed by the file name below the output directory.
func renderNSD(forward []ForwardZone, reverse []ReverseZone) (string, map[string]string) {
	conf := new(strings.Builder)
	files := map[string]string{}

	addConf := func(zone string) {
		fmt.Fprintln(conf, "zone:")
		fmt.Fprintf(conf, "    name: %s\n", zone)
		fmt.Fprintf(conf, "    zonefile: master/%szone\n", zone)
		fmt.Fprintln(conf)
	}

	for _, zone := range forward {
		addConf(zone.Name)
		b := new(strings.Builder)
		b.WriteString(nsdSOA(zone.ZoneBase))

		for _, mx := range zone.MX {
			rtype := fmt.Sprintf("MX %4d", mx.Prio)
			b.WriteString(nsdLine("", mx.TTL, zone.TTL, rtype, mx.Name))
		}

		// Hosts arrive apex-first and name-sorted, repeat owners are blanked.
		lastOwner := ""
		for _, host := range zone.Hosts {
			owner := stripOwner(host.Name, zone.Name)
			name := ""
			if owner != lastOwner {
				lastOwner = owner
				name = owner
			}
			rtype := "A"
			if host.Addr.Is6() {
				rtype = "AAAA"
			}
			b.WriteString(nsdLine(name, host.TTL, zone.TTL, rtype, host.Addr.String()))
		}

		for _, srv := range zone.SRV {
			data := fmt.Sprintf("%d %d %d %s", srv.Prio, srv.Weight, srv.Port, srv.Target)
			b.WriteString(nsdLine(stripOwner(srv.Name, zone.Name), srv.TTL, zone.TTL, "SRV", data))
		}
		for _, cname := range zone.CNAME {
			b.WriteString(nsdLine(stripOwner(cname.Name, zone.Name), cname.TTL, zone.TTL, "CNAME", cname.Target))
		}

		files[filepath.Join("master", zone.Name+"zone")] = b.String()
	}

	for _, zone := range reverse {
		addConf(zone.Name)
		b := new(strings.Builder)
		b.WriteString(nsdSOA(zone.ZoneBase))

		for _, ptr := range zone.PTR {
			b.WriteString(nsdLine(ipName(ptr.Addr, zone.Split), ptr.TTL, zone.TTL, "PTR", ptr.Name))
		}

		files[filepath.Join("master", zone.Name+"zone")] = b.String()
	}

	return conf.String(), files
}

// WriteNSD writes the NSD configuration into the given directory: zones.conf
// at the top and one zone file per zone under master/.
func WriteNSD(outputDir string, forward []ForwardZone, reverse []ReverseZone) error {
	conf, files := renderNSD(forward, reverse)

	if err := os.MkdirAll(filepath.Join(outputDir, "master"), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "zones.conf"), []byte(conf), 0644); err != nil {
		return err
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(outputDir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
