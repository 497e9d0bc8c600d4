package zonegen

import (
	"fmt"
	"strings"
)

// validateDNSName returns nil if the given name is a valid fully qualified
// DNS name. Underscores are accepted since service and protocol labels use
// them. A wildcard "*" is only allowed as the entire leftmost label.
func validateDNSName(name string) error {
	if len(name) > 253 {
		return &ValidationError{Reason: fmt.Sprintf("DNS name too long (max 253 chars): %q", name)}
	}
	if !strings.HasSuffix(name, ".") {
		return &ValidationError{Reason: fmt.Sprintf("host must be fully qualified: %q", name)}
	}
	labels := strings.Split(strings.TrimSuffix(name, "."), ".")
	for i, label := range labels {
		if label == "" {
			return &ValidationError{Reason: fmt.Sprintf("DNS name has empty label: %q", name)}
		}
		if len(label) > 63 {
			return &ValidationError{Reason: fmt.Sprintf("DNS label too long (max 63 chars): %q", label)}
		}
		if strings.Contains(label, "*") {
			if i != 0 {
				return &ValidationError{Reason: fmt.Sprintf("wildcard '*' must be leftmost label: %q", name)}
			}
			if label != "*" {
				return &ValidationError{Reason: fmt.Sprintf("wildcard '*' must be entire label: %q", label)}
			}
			continue
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return &ValidationError{Reason: fmt.Sprintf("DNS label cannot start or end with hyphen: %q", label)}
		}
		for _, c := range label {
			switch {
			case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-', c == '_':
			default:
				return &ValidationError{Reason: fmt.Sprintf("DNS label has invalid character %q: %q", string(c), label)}
			}
		}
	}
	return nil
}

// validateEmail returns nil if the given address is a valid plain email
// literal in user@domain form.
func validateEmail(email string) error {
	if len(email) > 254 {
		return &ValidationError{Reason: fmt.Sprintf("email too long (max 254 chars): %q", email)}
	}
	local, domain, found := strings.Cut(email, "@")
	if !found {
		return &ValidationError{Reason: fmt.Sprintf("email must contain '@', got %q", email)}
	}
	if local == "" {
		return &ValidationError{Reason: "email local part (before @) cannot be empty"}
	}
	if len(local) > 64 {
		return &ValidationError{Reason: fmt.Sprintf("email local part too long (max 64 chars): %q", local)}
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		return &ValidationError{Reason: fmt.Sprintf("email local part cannot start or end with '.': %q", local)}
	}
	if strings.Contains(local, "..") {
		return &ValidationError{Reason: fmt.Sprintf("email local part cannot contain consecutive dots: %q", local)}
	}
	for _, c := range local {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z',
			c == '.', c == '+', c == '-', c == '_':
		default:
			return &ValidationError{Reason: fmt.Sprintf("email local part contains invalid character %q: %q", string(c), local)}
		}
	}
	// The domain may already be in FQDN form with a trailing dot.
	domain = strings.TrimSuffix(domain, ".")
	if domain == "" {
		return &ValidationError{Reason: "email domain (after @) cannot be empty"}
	}
	if !strings.Contains(domain, ".") {
		return &ValidationError{Reason: fmt.Sprintf("email domain must contain at least one dot: %q", domain)}
	}
	labels := strings.Split(domain, ".")
	for _, label := range labels {
		if label == "" {
			return &ValidationError{Reason: fmt.Sprintf("email domain cannot have empty labels: %q", domain)}
		}
		if len(label) > 63 {
			return &ValidationError{Reason: fmt.Sprintf("email domain label too long (max 63 chars): %q", label)}
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return &ValidationError{Reason: fmt.Sprintf("email domain label cannot start or end with hyphen: %q", label)}
		}
		for _, c := range label {
			switch {
			case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '-':
			default:
				return &ValidationError{Reason: fmt.Sprintf("email domain label contains invalid character %q: %q", string(c), label)}
			}
		}
	}
	// The TLD can not be all-numeric.
	allNumeric := true
	for _, c := range labels[len(labels)-1] {
		if c < '0' || c > '9' {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		return &ValidationError{Reason: fmt.Sprintf("email domain TLD cannot be all numeric: %q", labels[len(labels)-1])}
	}
	return nil
}
