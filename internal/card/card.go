// Package card renders line-oriented simulation cards. A field rewrites the
// value text that follows its name on every non-comment line where the name
// appears as a whole word; every other byte of the card is preserved.
package card

import (
	"fmt"
	"slices"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
)

// Field is one (name, value) substitution.
type Field struct {
	Name  string
	Value string
}

// NewField formats value with fmt.Sprint.
func NewField(name string, value interface{}) Field {
	return Field{Name: name, Value: fmt.Sprint(value)}
}

// Options tunes how the value span of a matching line is located.
type Options struct {
	// Separator, when set, must follow the name (e.g. "=" for
	// "Main:numberOfEvents = 100"). It and its surrounding whitespace are kept.
	Separator string
}

// Render applies fields in order to a copy of lines using default options.
func Render(lines []string, fields []Field) ([]string, error) {
	return RenderWith(lines, fields, Options{})
}

// RenderWith applies fields in order to a copy of lines. On error the input
// is untouched and no partial result is returned.
func RenderWith(lines []string, fields []Field, opts Options) ([]string, error) {
	out := slices.Clone(lines)
	for _, f := range fields {
		if err := validateName(f.Name); err != nil {
			return nil, err
		}
		for i, line := range out {
			start, ok := valueSpan(line, f.Name, opts)
			if !ok {
				continue
			}
			end := lineEnd(line)
			if start >= end {
				return nil, errs.NewLineError(f.Name, i+1, line)
			}
			out[i] = line[:start] + f.Value + line[end:]
		}
	}
	return out, nil
}

// Lookup returns the last token of the first line where name is a word.
func Lookup(lines []string, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	for _, line := range lines {
		if isSkipped(line) || wordIndex(line, name, "") < 0 {
			continue
		}
		tokens := strings.Fields(line)
		return tokens[len(tokens)-1], nil
	}
	return "", errs.NotFound("cannot find field with name %s", name)
}

func validateName(name string) error {
	if name == "" || strings.ContainsAny(name, " \t\r\n") {
		return errs.Invalid("bad card field name %q", name)
	}
	return nil
}

// isSkipped reports blank and comment lines.
func isSkipped(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.TrimSpace(trimmed) == "" || strings.HasPrefix(trimmed, "#")
}

// lineEnd excludes the carriage return of CRLF cards from the value span.
func lineEnd(line string) int {
	return len(strings.TrimSuffix(line, "\r"))
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r'
}

// wordIndex returns the offset of the first occurrence of name bounded by
// line start/whitespace on the left and line end/whitespace (or sep) on the right.
func wordIndex(line, name, sep string) int {
	for from := 0; from <= len(line)-len(name); {
		i := strings.Index(line[from:], name)
		if i < 0 {
			return -1
		}
		i += from
		j := i + len(name)
		leftOK := i == 0 || isSpace(line[i-1])
		rightOK := j == len(line) || isSpace(line[j]) || (sep != "" && strings.HasPrefix(line[j:], sep))
		if leftOK && rightOK {
			return i
		}
		from = i + 1
	}
	return -1
}

// valueSpan returns where the current value text starts on a matching line.
func valueSpan(line, name string, opts Options) (int, bool) {
	if isSkipped(line) {
		return 0, false
	}
	i := wordIndex(line, name, opts.Separator)
	if i < 0 {
		return 0, false
	}
	pos := skipSpace(line, i+len(name))
	if opts.Separator != "" {
		if !strings.HasPrefix(line[pos:], opts.Separator) {
			return 0, false
		}
		pos = skipSpace(line, pos+len(opts.Separator))
	}
	return pos, true
}

func skipSpace(line string, pos int) int {
	for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		pos++
	}
	return pos
}
