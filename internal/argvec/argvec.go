// Package argvec manipulates an executable's flag/value token list under an
// explicit flag schema, so values such as "-5" or "-hepmc.out" are never
// mistaken for flags.
package argvec

import (
	"slices"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
)

// Vector is an ordered token list interpreted through a Schema.
type Vector struct {
	schema *Schema
	tokens []string
}

// New creates a vector over a copy of tokens.
func New(schema *Schema, tokens []string) *Vector {
	return &Vector{schema: schema, tokens: slices.Clone(tokens)}
}

// Schema returns the schema the vector was built with.
func (v *Vector) Schema() *Schema { return v.schema }

// Tokens returns a copy of the tokens in order.
func (v *Vector) Tokens() []string { return slices.Clone(v.tokens) }

// Len returns the number of tokens.
func (v *Vector) Len() int { return len(v.tokens) }

// String joins the tokens with single spaces.
func (v *Vector) String() string { return strings.Join(v.tokens, " ") }

// Clone returns an independent copy sharing the (immutable) schema.
func (v *Vector) Clone() *Vector {
	return &Vector{schema: v.schema, tokens: slices.Clone(v.tokens)}
}

// Has reports whether flag appears in the vector outside a value position.
func (v *Vector) Has(flag string) bool {
	return v.find(flag) >= 0
}

// find returns the first position of flag, skipping tokens taken as the
// value of the flag before them.
func (v *Vector) find(flag string) int {
	for i := 0; i < len(v.tokens); i++ {
		if v.tokens[i] == flag {
			return i
		}
		if v.valueAt(i) {
			i++
		}
	}
	return -1
}

// index locates the first occurrence of a declared flag.
func (v *Vector) index(flag string) (int, error) {
	i := v.find(flag)
	if i < 0 {
		return -1, errs.NotFound("%s not in args", flag)
	}
	if !v.schema.IsFlag(flag) {
		return -1, errs.Invalid("%s is not a declared flag", flag)
	}
	return i, nil
}

// valueAt reports whether the flag at index i is followed by its value.
func (v *Vector) valueAt(i int) bool {
	if !v.schema.TakesValue(v.tokens[i]) || i == len(v.tokens)-1 {
		return false
	}
	return !v.schema.IsFlag(v.tokens[i+1])
}

// Get returns the value following flag. ok is false when flag is a switch,
// the last token, or directly followed by another flag.
func (v *Vector) Get(flag string) (value string, ok bool, err error) {
	i, err := v.index(flag)
	if err != nil {
		return "", false, err
	}
	if !v.valueAt(i) {
		return "", false, nil
	}
	return v.tokens[i+1], true, nil
}

// Set replaces the value of flag in place, or inserts value directly after
// flag when it carries none.
func (v *Vector) Set(flag, value string) error {
	i, err := v.index(flag)
	if err != nil {
		return err
	}
	if !v.schema.TakesValue(flag) {
		return errs.Invalid("%s is a switch and takes no value", flag)
	}
	if v.valueAt(i) {
		v.tokens[i+1] = value
		return nil
	}
	v.tokens = slices.Insert(v.tokens, i+1, value)
	return nil
}

// SetOrAppend sets flag's value, appending "flag value" when flag is absent.
func (v *Vector) SetOrAppend(flag, value string) error {
	if !v.Has(flag) {
		if !v.schema.TakesValue(flag) {
			return errs.Invalid("%s does not take a value", flag)
		}
		v.tokens = append(v.tokens, flag, value)
		return nil
	}
	return v.Set(flag, value)
}

// Ensure appends a declared switch when it is not already present.
func (v *Vector) Ensure(flag string) error {
	if k, ok := v.schema.KindOf(flag); !ok || k != Switch {
		return errs.Invalid("%s is not a declared switch", flag)
	}
	if !v.Has(flag) {
		v.tokens = append(v.tokens, flag)
	}
	return nil
}

// Lookup returns the value of the first flag in flags that is present.
// found is false if none of them appear.
func (v *Vector) Lookup(flags ...string) (value string, found bool, err error) {
	for _, f := range flags {
		if !v.Has(f) {
			continue
		}
		val, _, err := v.Get(f)
		return val, true, err
	}
	return "", false, nil
}
