package argvec

// Kind describes how a flag consumes the token that follows it.
type Kind int

const (
	// Value flags always take a value (e.g. --seed 3).
	Value Kind = iota
	// OptionalValue flags may take a value (e.g. --hepmc [file]).
	OptionalValue
	// Switch flags never take a value (e.g. --zip).
	Switch
)

func (k Kind) String() string {
	switch k {
	case Value:
		return "value"
	case OptionalValue:
		return "optional-value"
	case Switch:
		return "switch"
	default:
		return "unknown"
	}
}

// Schema maps flag literals to their Kind. A token is a flag only if the
// schema declares it; undeclared tokens are always values.
type Schema struct {
	flags map[string]Kind
}

// NewSchema creates a schema from a flag -> kind map. The map is copied.
func NewSchema(flags map[string]Kind) *Schema {
	s := &Schema{flags: make(map[string]Kind, len(flags))}
	for f, k := range flags {
		s.flags[f] = k
	}
	return s
}

// With returns a copy of the schema with extra flags declared.
func (s *Schema) With(flags map[string]Kind) *Schema {
	out := NewSchema(s.flags)
	for f, k := range flags {
		out.flags[f] = k
	}
	return out
}

// IsFlag reports whether token is a declared flag.
func (s *Schema) IsFlag(token string) bool {
	_, ok := s.flags[token]
	return ok
}

// KindOf returns the declared kind of flag.
func (s *Schema) KindOf(flag string) (Kind, bool) {
	k, ok := s.flags[flag]
	return k, ok
}

// TakesValue reports whether flag is declared and may carry a value.
func (s *Schema) TakesValue(flag string) bool {
	k, ok := s.flags[flag]
	return ok && k != Switch
}
