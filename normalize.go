package zonegen

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// parseHostName completes a host name relative to its zone. Names that are
// already fully qualified pass through unchanged, "@" denotes the zone apex.
func parseHostName(name, zone string) (string, error) {
	host := strings.TrimSpace(name)
	if dns.IsFqdn(host) {
		return host, nil
	}
	if zone == "" {
		return "", &ValidationError{Reason: fmt.Sprintf("host must be fully qualified, got %q", host)}
	}
	if host == "@" {
		return zone, nil
	}
	return host + "." + zone, nil
}

// srvNameShape checks the "_service._proto[.suffix]" convention on a raw SRV
// name and returns a reason string when it does not hold.
func srvNameShape(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) < 2 {
		return fmt.Sprintf("SRV name must have at least service and protocol (e.g. '_http._tcp'), got %q", name)
	}
	if !strings.HasPrefix(parts[0], "_") {
		return fmt.Sprintf("SRV service name must start with '_', got %q", parts[0])
	}
	if !strings.HasPrefix(parts[1], "_") {
		return fmt.Sprintf("SRV protocol name must start with '_', got %q", parts[1])
	}
	return ""
}

// parseSRVName checks the service/protocol convention and then completes the
// name like any other host name.
func parseSRVName(name, zone string) (string, error) {
	srv := strings.TrimSpace(name)
	if reason := srvNameShape(srv); reason != "" {
		return "", &ValidationError{Reason: reason}
	}
	return parseHostName(srv, zone)
}

// parseEmail encodes an email address into SOA mailbox form: the "@" becomes
// a ".", literal dots in the local part are escaped, and the domain gets a
// trailing dot. The raw literal is validated first so the encoded form is
// valid by construction regardless of which path produced it.
func parseEmail(raw string) (string, error) {
	if err := validateEmail(raw); err != nil {
		return "", err
	}
	local, domain, _ := strings.Cut(raw, "@")
	escaped := strings.ReplaceAll(local, ".", `\.`)
	if !dns.IsFqdn(domain) {
		domain += "."
	}
	return escaped + "." + domain, nil
}
