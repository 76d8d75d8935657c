package argvec

import (
	"testing"

	"github.com/geonmo/NMSSMPheno/internal/errs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func testSchema() *Schema {
	return NewSchema(map[string]Kind{
		"--foo":   Value,
		"--man":   Value,
		"--pasta": Value,
		"--fish":  Value,
		"--card":  Value,
		"--mass":  Value,
		"--hepmc": OptionalValue,
		"--zip":   Switch,
	})
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		tokens  []string
		flag    string
		want    string
		wantOK  bool
		wantErr error
	}{
		{"value present", []string{"--foo", "bar", "--man"}, "--foo", "bar", true, nil},
		{"last token", []string{"--foo", "bar", "--man"}, "--man", "", false, nil},
		{"absent", []string{"--foo", "bar", "--man"}, "--fish", "", false, errs.ErrNotFound},
		{"followed by flag", []string{"--man", "--foo", "bar"}, "--man", "", false, nil},
		{"negative value", []string{"--mass", "-5", "--zip"}, "--mass", "-5", true, nil},
		{"dash value", []string{"--hepmc", "-out.hepmc"}, "--hepmc", "-out.hepmc", true, nil},
		{"switch", []string{"--zip", "extra"}, "--zip", "", false, nil},
		{"undeclared", []string{"--energy", "13"}, "--energy", "", false, errs.ErrInvalidArgument},
		{"first occurrence", []string{"--foo", "a", "--foo", "b"}, "--foo", "a", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(testSchema(), tt.tokens)
			got, ok, err := v.Get(tt.flag)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Get(%q) = (%q, %v); want (%q, %v)", tt.flag, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSet(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		flag   string
		value  string
		want   []string
	}{
		{
			name:   "flag is last token",
			tokens: []string{"--card", "c.txt", "--mass"},
			flag:   "--mass", value: "8",
			want: []string{"--card", "c.txt", "--mass", "8"},
		},
		{
			name:   "replace existing",
			tokens: []string{"--foo", "bar", "--man", "--pasta"},
			flag:   "--foo", value: "ball",
			want: []string{"--foo", "ball", "--man", "--pasta"},
		},
		{
			name:   "insert before next flag",
			tokens: []string{"--foo", "ball", "--man", "--pasta"},
			flag:   "--man", value: "trap",
			want: []string{"--foo", "ball", "--man", "trap", "--pasta"},
		},
		{
			name:   "replace negative value",
			tokens: []string{"--mass", "-1", "--zip"},
			flag:   "--mass", value: "4",
			want: []string{"--mass", "4", "--zip"},
		},
		{
			name:   "optional value without one",
			tokens: []string{"--hepmc", "--zip"},
			flag:   "--hepmc", value: "a.hepmc",
			want: []string{"--hepmc", "a.hepmc", "--zip"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(testSchema(), tt.tokens)
			require.NoError(t, v.Set(tt.flag, tt.value))
			if diff := cmp.Diff(tt.want, v.Tokens()); diff != "" {
				t.Errorf("Set(%q, %q) mismatch (-want +got):\n%s", tt.flag, tt.value, diff)
			}
		})
	}
}

func TestSetErrors(t *testing.T) {
	v := New(testSchema(), []string{"--zip", "--foo", "x"})
	require.ErrorIs(t, v.Set("--fish", "y"), errs.ErrNotFound)
	require.ErrorIs(t, v.Set("--zip", "y"), errs.ErrInvalidArgument)
	if diff := cmp.Diff([]string{"--zip", "--foo", "x"}, v.Tokens()); diff != "" {
		t.Errorf("failed Set mutated vector (-want +got):\n%s", diff)
	}
}

func TestSetOrAppendAndEnsure(t *testing.T) {
	v := New(testSchema(), []string{"--card", "c.txt"})
	require.NoError(t, v.SetOrAppend("--mass", "8"))
	require.NoError(t, v.SetOrAppend("--mass", "9"))
	require.NoError(t, v.Ensure("--zip"))
	require.NoError(t, v.Ensure("--zip"))
	require.ErrorIs(t, v.Ensure("--mass"), errs.ErrInvalidArgument)

	want := []string{"--card", "c.txt", "--mass", "9", "--zip"}
	if diff := cmp.Diff(want, v.Tokens()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	base := New(testSchema(), []string{"--mass", "8"})
	c := base.Clone()
	require.NoError(t, c.Set("--mass", "10"))

	got, _, _ := base.Get("--mass")
	if got != "8" {
		t.Errorf("base mutated through clone: --mass = %q", got)
	}
}

func TestNewCopiesTokens(t *testing.T) {
	tokens := []string{"--mass", "8"}
	v := New(testSchema(), tokens)
	require.NoError(t, v.Set("--mass", "9"))
	if tokens[1] != "8" {
		t.Errorf("caller slice mutated: %v", tokens)
	}
}

func TestLookup(t *testing.T) {
	v := New(testSchema().With(map[string]Kind{"-n": Value, "--number": Value}), []string{"-n", "500"})
	got, found, err := v.Lookup("--number", "-n")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "500", got)

	_, found, err = v.Lookup("--fish")
	require.NoError(t, err)
	require.False(t, found)
}

func TestHasSkipsValues(t *testing.T) {
	tests := []struct {
		tokens []string
		flag   string
		want   bool
	}{
		{[]string{"--card", "--seed"}, "--seed", false},
		{[]string{"--card", "c.txt", "--seed"}, "--seed", true},
		{[]string{"--zip", "--seed"}, "--seed", true},
		{[]string{"--mass", "--card", "--seed"}, "--seed", false},
		{[]string{"--hepmc", "out", "out"}, "out", true},
	}
	for _, tt := range tests {
		v := New(testSchema(), tt.tokens)
		if got := v.Has(tt.flag); got != tt.want {
			t.Errorf("Has(%v, %q) = %v; want %v", tt.tokens, tt.flag, got, tt.want)
		}
	}

	v := New(testSchema(), []string{"--card", "--seed"})
	_, _, err := v.Get("--seed")
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, found, err := v.Lookup("--seed")
	require.NoError(t, err)
	require.False(t, found)
}

// valueGen draws tokens that are never declared flags.
func valueGen() *rapid.Generator[string] {
	return rapid.StringMatching(`-?[a-z0-9.]{0,6}`).Filter(func(s string) bool {
		return !testSchema().IsFlag(s)
	})
}

func vectorGen() *rapid.Generator[[]string] {
	tokenGen := rapid.OneOf(
		rapid.SampledFrom([]string{"--foo", "--man", "--pasta", "--mass", "--hepmc", "--zip"}),
		valueGen(),
	)
	return rapid.SliceOfN(tokenGen, 0, 12)
}

func TestSetGetRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokens := vectorGen().Draw(t, "tokens")
		flag := rapid.SampledFrom([]string{"--foo", "--man", "--mass", "--hepmc"}).Draw(t, "flag")
		value := valueGen().Draw(t, "value")

		v := New(testSchema(), append(tokens, flag))
		require.NoError(t, v.Set(flag, value))

		got, ok, err := v.Get(flag)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, value, got)
	})
}

func TestSetCurrentValueIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tokens := vectorGen().Draw(t, "tokens")
		flag := rapid.SampledFrom([]string{"--foo", "--man", "--mass"}).Draw(t, "flag")
		value := valueGen().Draw(t, "value")

		v := New(testSchema(), append([]string{flag, value}, tokens...))
		before := v.Tokens()

		current, ok, err := v.Get(flag)
		require.NoError(t, err)
		require.True(t, ok)
		require.NoError(t, v.Set(flag, current))
		require.Equal(t, before, v.Tokens())
	})
}
