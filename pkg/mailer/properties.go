package mailer

// Properties is an open-ended set of delivery hints attached to a message.
// Keys are matched exactly.
type Properties map[string]any

// LookupState reports the outcome of reading a property.
type LookupState int

const (
	// LookupAbsent means the key is not set (or set to nil).
	LookupAbsent LookupState = iota
	// LookupWrongType means the key is set but holds an unexpected type.
	LookupWrongType
	// LookupPresent means the key is set and holds the expected type.
	LookupPresent
)

// String implements fmt.Stringer.
func (s LookupState) String() string {
	switch s {
	case LookupPresent:
		return "present"
	case LookupWrongType:
		return "wrong_type"
	default:
		return "absent"
	}
}

// Get returns the raw value stored under key.
// Nil values are reported as missing.
func (p Properties) Get(key string) (any, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a shallow copy of the properties.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Lookup reads key from p and asserts it to T.
// A value of another type is reported as LookupWrongType together with the
// zero value of T; callers decide whether that is an error or "absent".
func Lookup[T any](p Properties, key string) (T, LookupState) {
	var zero T
	raw, ok := p.Get(key)
	if !ok {
		return zero, LookupAbsent
	}
	v, ok := raw.(T)
	if !ok {
		return zero, LookupWrongType
	}
	return v, LookupPresent
}
