package zonegen

import (
	"fmt"
)

// SessionDefaults are the resolved global defaults every zone falls back to.
// The serial is either the document's explicit default or the externally
// supplied counter, the email is already in SOA mailbox form, and the
// nameserver and MX unions are flattened into concrete lists.
type SessionDefaults struct {
	Serial     uint32
	Email      string // "" when no default email is set
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

// newSessionDefaults builds the session defaults from the document's raw
// defaults and the externally supplied serial. Default nameservers are not
// qualified against any zone, they must already be fully qualified names.
func newSessionDefaults(raw RawDefaults, serial uint32) (*SessionDefaults, error) {
	if raw.Serial != nil {
		serial = *raw.Serial
	}
	if raw.Retry >= raw.Refresh {
		return nil, &ValidationError{
			Field:  "defaults",
			Reason: fmt.Sprintf("retry (%d) must be less than refresh (%d)", raw.Retry, raw.Refresh),
		}
	}
	var email string
	if raw.Email != "" {
		var err error
		email, err = parseEmail(raw.Email)
		if err != nil {
			return nil, annotate(err, "", "defaults.email")
		}
	}
	for _, ns := range raw.Nameserver {
		if err := validateDNSName(ns); err != nil {
			return nil, annotate(err, "", "defaults.nameserver")
		}
	}
	return &SessionDefaults{
		Serial:     serial,
		Email:      email,
		Expire:     raw.Expire,
		MX:         raw.MX,
		MXPrio:     raw.MXPrio,
		Nameserver: raw.Nameserver,
		NrcTTL:     raw.NrcTTL,
		Refresh:    raw.Refresh,
		Retry:      raw.Retry,
		SrvPrio:    raw.SrvPrio,
		SrvWeight:  raw.SrvWeight,
		TTL:        raw.TTL,
		WithPTR:    raw.WithPTR,
	}, nil
}

// Shallow override helpers: a zone's own value wins, otherwise the default
// applies. There is no deep merging anywhere in resolution.

func pickU32(v *uint32, def uint32) uint32 {
	if v != nil {
		return *v
	}
	return def
}

func pickU16(v *uint16, def uint16) uint16 {
	if v != nil {
		return *v
	}
	return def
}

func pickBool(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
