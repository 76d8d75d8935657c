package card

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/geonmo/NMSSMPheno/internal/errs"
)

// Template is a card split into lines. FinalNewline records whether the
// source ended with "\n" so Bytes reproduces it exactly.
type Template struct {
	Lines        []string
	FinalNewline bool
}

// Parse splits data on "\n". Carriage returns stay part of their line.
func Parse(data []byte) *Template {
	s := string(data)
	if s == "" {
		return &Template{}
	}
	lines := strings.Split(s, "\n")
	t := &Template{Lines: lines}
	if lines[len(lines)-1] == "" {
		t.Lines = lines[:len(lines)-1]
		t.FinalNewline = true
	}
	return t
}

// Bytes joins the lines back into file content.
func (t *Template) Bytes() []byte {
	s := strings.Join(t.Lines, "\n")
	if t.FinalNewline {
		s += "\n"
	}
	return []byte(s)
}

// Render returns a new template with fields applied.
func (t *Template) Render(fields []Field, opts Options) (*Template, error) {
	lines, err := RenderWith(t.Lines, fields, opts)
	if err != nil {
		return nil, err
	}
	return &Template{Lines: lines, FinalNewline: t.FinalNewline}, nil
}

// Lookup returns the last token of the first line naming field.
func (t *Template) Lookup(field string) (string, error) {
	return Lookup(t.Lines, field)
}

// Load reads a card from disk.
func Load(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Missing("input card %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to read card %s: %w", path, err)
	}
	return Parse(data), nil
}

// WriteFile writes t to path through a temporary file in the same directory,
// so readers never observe a partially written card.
func WriteFile(path string, t *Template) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp card in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(t.Bytes()); err != nil {
		return fmt.Errorf("failed to write card %s: %w", path, err)
	}
	if err = tmp.Chmod(0644); err != nil {
		return fmt.Errorf("failed to chmod card %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close card %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move card into place at %s: %w", path, err)
	}
	return nil
}

// RenderFile loads in, renders fields and writes the result to out. Nothing
// is written unless every field renders.
func RenderFile(in, out string, fields []Field, opts Options) error {
	t, err := Load(in)
	if err != nil {
		return err
	}
	rendered, err := t.Render(fields, opts)
	if err != nil {
		return fmt.Errorf("failed to render card %s: %w", in, err)
	}
	return WriteFile(out, rendered)
}

// DefaultOutputPath returns <stem>_new<ext> next to the input card.
func DefaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_new" + ext
}
