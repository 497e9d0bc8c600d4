package zonegen

// Resolve compiles a zone description document into fully resolved forward
// and reverse zones. The text is decoded according to the given dialect, the
// serial is the freshly computed counter embedded into every zone that does
// not override it. Resolution is all-or-nothing: any decode, validation or
// semantic error aborts the run and no partial result is returned.
func Resolve(text string, dialect Dialect, serial uint32) ([]ForwardZone, []ReverseZone, error) {
	doc, err := decodeDocument(text, dialect)
	if err != nil {
		return nil, nil, err
	}
	defaults, err := newSessionDefaults(doc.Defaults, serial)
	if err != nil {
		return nil, nil, err
	}

	pool := newPTRPool()
	forward := make([]ForwardZone, 0, len(doc.Zones))
	for _, raw := range doc.Zones {
		zone, ptrs, err := resolveForward(raw, defaults)
		if err != nil {
			return nil, nil, err
		}
		forward = append(forward, zone)
		for _, ptr := range ptrs {
			if err := pool.insert(ptr); err != nil {
				return nil, nil, err
			}
		}
	}

	reverse, err := resolveReverse(doc.Reverse, defaults, pool)
	if err != nil {
		return nil, nil, err
	}

	// Candidates no declared network covers are dropped. Make that visible
	// without affecting the result.
	for _, addr := range pool.unclaimed() {
		Log.WithField("address", addr.String()).Debug("no reverse network covers PTR candidate, dropping")
	}

	return forward, reverse, nil
}
