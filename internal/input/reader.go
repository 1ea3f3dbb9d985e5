// Package input splits the tool's single input stream into its two channels:
// the YAML template, terminated by a sentinel line, and the JSON rules
// document that follows it.
package input

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/models"
)

// Sentinel ends the template section of the input stream.
const Sentinel = "---END-YAML---"

var (
	// ErrNoSentinel is returned when the stream ends before Sentinel.
	ErrNoSentinel = errors.New("unexpected end of input while reading YAML")

	// ErrEmptyTemplate is returned when nothing but whitespace precedes Sentinel.
	ErrEmptyTemplate = errors.New("received empty YAML input")

	// ErrInvalidFormat is returned for well-formed JSON of the wrong shape.
	ErrInvalidFormat = errors.New("invalid rules format: expected an object with a 'rules' array")
)

// Reader reads the template and then the rules from one stream.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadTemplate returns the lines before Sentinel joined with "\n" and trimmed
// of surrounding whitespace. The sentinel must stand alone on its line; a
// trailing carriage return is tolerated.
func (r *Reader) ReadTemplate() ([]byte, error) {
	var lines []string
	for {
		line, err := r.br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read template: %w", err)
		}
		if line == "" && errors.Is(err, io.EOF) {
			return nil, ErrNoSentinel
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == Sentinel {
			break
		}
		lines = append(lines, line)

		if errors.Is(err, io.EOF) {
			return nil, ErrNoSentinel
		}
	}

	content := strings.TrimSpace(strings.Join(lines, "\n"))
	if content == "" {
		return nil, ErrEmptyTemplate
	}
	return []byte(content), nil
}

// ReadRules consumes the rest of the stream as a rules document. Empty or
// whitespace-only input yields an empty rule set.
func (r *Reader) ReadRules() (*models.RuleSet, error) {
	data, err := io.ReadAll(r.br)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a rules document. The top level must be an object with
// a "rules" array; fields other than "rules" are ignored.
func ParseRules(data []byte) (*models.RuleSet, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &models.RuleSet{Rules: []models.Rule{}}, nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrInvalidFormat
		}
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	// top is nil for a literal null.
	raw, ok := top["rules"]
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		return nil, ErrInvalidFormat
	}

	var rules []models.Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if rules == nil {
		rules = []models.Rule{}
	}
	return &models.RuleSet{Rules: rules}, nil
}
