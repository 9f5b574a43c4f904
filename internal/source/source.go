// Package source reads line oriented input files for the catalog and the
// position book.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadError a fatal failure reading a whole source. No partial data is
// returned alongside it.
type LoadError struct {
	Kind   string // "combination" or "position"
	Source string
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("could not load %s source %s: %v", e.Kind, e.Source, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is, or wraps, a *LoadError.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}

// LoadStats row counters of one load.
type LoadStats struct {
	Rows    int `json:"rows"`
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// Line one non-empty, trimmed data row.
type Line struct {
	Number int // 1-based line number in the source
	Text   string
}

// ReadLines calls fn for every non-empty line after the first skip lines.
// Lines are trimmed and have no length limit; a long malformed line reaches fn
// like any other. A read error aborts with a *LoadError.
func ReadLines(r io.Reader, kind, name string, skip int, fn func(Line)) error {
	reader := bufio.NewReader(r)

	number := 0
	for {
		text, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return &LoadError{Kind: kind, Source: name, Err: err}
		}
		if text == "" && err == io.EOF {
			return nil
		}

		number++
		if number > skip {
			if text = strings.TrimSpace(text); text != "" {
				fn(Line{Number: number, Text: text})
			}
		}
		if err == io.EOF {
			return nil
		}
	}
}

// Open opens a file source, wrapping failures in a *LoadError.
func Open(kind, path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Kind: kind, Source: path, Err: err}
	}
	return f, nil
}

// SplitTabs splits on runs of tab characters.
func SplitTabs(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool { return r == '\t' })
}
