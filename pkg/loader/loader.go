// Package loader reads book and federation snapshots from JSON, NDJSON,
// YAML or TOML, detecting the format from the content or the file extension.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyInput is returned for blank input.
var ErrEmptyInput = errors.New("empty input")

var (
	// TOML section headers: [server], [[orders]], ["table name"], [a.b]
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value (YAML uses key: value)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// LoadData loads structured data from a string, auto-detecting format.
// Supports:
// - Single JSON object/array
// - Newline-delimited JSON (NDJSON): one JSON object per line
// - YAML: single document or multi-document (separated by ---)
// - TOML
//
// All formats return an []interface{} where each element is a parsed document/object.
// For single-document inputs, the array contains one element.
func LoadData(input string) ([]interface{}, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return loadMultiDocYAML(input)
	}

	if lines := strings.Split(input, "\n"); len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(input)
	}

	// TOML [section] headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(input) {
		if docs, err := loadTOML(input); err == nil {
			return docs, nil
		}
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		if docs, err := loadJSON(input); err == nil {
			return docs, nil
		}
	}

	// YAML is a superset of JSON and the most lenient parser.
	return loadYAML(input)
}

// LoadRoot parses input into a single root node. Multi-document inputs are returned as a slice.
func LoadRoot(input string) (interface{}, error) {
	results, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// LoadFile reads a file and parses it into a single root node. A known
// extension picks the parser; when that parser fails the content is
// detected as with LoadRoot.
func LoadFile(path string) (interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	input := string(data)

	var parse func(string) ([]interface{}, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		parse = loadJSON
	case ".ndjson", ".jsonl":
		parse = loadNDJSON
	case ".yaml", ".yml":
		parse = loadMultiDocYAML
	case ".toml":
		parse = loadTOML
	}
	if parse != nil {
		if docs, err := parse(strings.TrimSpace(input)); err == nil {
			return root(docs), nil
		}
	}
	return LoadRoot(input)
}

// LoadReader reads all of r and parses it like LoadRoot.
func LoadReader(r io.Reader) (interface{}, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return LoadRoot(string(data))
}

// LoadSource loads path, or stdin when path is empty or "-".
func LoadSource(path string, stdin io.Reader) (interface{}, error) {
	if path == "" || path == "-" {
		return LoadReader(stdin)
	}
	return LoadFile(path)
}

// Decode converts a parsed root into out through JSON, so json struct tags
// govern every input format.
func Decode(root interface{}, out interface{}) error {
	data, err := json.Marshal(root)
	if err != nil {
		return fmt.Errorf("cannot marshal input to JSON: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("cannot decode input: %w", err)
	}
	return nil
}

func root(docs []interface{}) interface{} {
	if len(docs) == 1 {
		return docs[0]
	}
	return docs
}

// loadJSON parses a single JSON object or array and wraps it in []interface{}
func loadJSON(input string) ([]interface{}, error) {
	var data interface{}
	if err := json.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return []interface{}{data}, nil
}

// loadYAML parses a single YAML document and wraps it in []interface{}
func loadYAML(input string) ([]interface{}, error) {
	var data interface{}
	if err := yaml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []interface{}{data}, nil
}

// loadMultiDocYAML parses YAML with one or more documents separated by ---.
func loadMultiDocYAML(input string) ([]interface{}, error) {
	var results []interface{}
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc interface{}
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if doc != nil {
			results = append(results, doc)
		}
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no documents found in multi-document YAML")
	}
	return results, nil
}

// loadNDJSON parses newline-delimited JSON. Every non-empty line must be a
// JSON value.
func loadNDJSON(input string) ([]interface{}, error) {
	lines := strings.Split(input, "\n")
	results := make([]interface{}, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var obj interface{}
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			return nil, fmt.Errorf("invalid NDJSON at line %d: %w", i+1, err)
		}
		results = append(results, obj)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON heuristic: returns true if the input looks like newline-delimited JSON.
// A majority of non-empty lines must start with '{' or '[' so YAML lists
// are not misclassified.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}

	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML heuristic: returns true if the input has section headers or
// mostly key = value lines.
func isLikelyTOML(input string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0

	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}

	return sectionCount > 0 || (nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2)
}

// loadTOML parses TOML content and wraps it in []interface{}
func loadTOML(input string) ([]interface{}, error) {
	var data interface{}
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []interface{}{data}, nil
}
