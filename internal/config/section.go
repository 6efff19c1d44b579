package config

import (
	"path/filepath"
	"strconv"
	"strings"
)

// Section is a named collection of Settings plus the file path it was read
// from, used to resolve relative paths (spec.md §3 Section).
type Section struct {
	name     string
	path     string
	settings map[string]string
	order    []string
}

// NewSection creates an empty section. path is the absolute path of the
// file the section originated from (empty for sections built at runtime,
// e.g. CLI option overrides).
func NewSection(name, path string) *Section {
	return &Section{
		name:     name,
		path:     path,
		settings: make(map[string]string),
	}
}

// Name returns the section's (case-sensitive) name.
func (s *Section) Name() string { return s.name }

// Path returns the originating file path.
func (s *Section) Path() string { return s.path }

// Len returns the number of settings in the section.
func (s *Section) Len() int { return len(s.settings) }

// Has reports whether the key is present.
func (s *Section) Has(key string) bool {
	_, ok := s.settings[key]
	return ok
}

// Keys returns the setting keys in insertion order.
func (s *Section) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Define adds a new key during parsing. It is an error to define a key that
// already exists in this section — duplicates are only ever resolved
// through Merge, never through parsing (spec.md §3 Section invariants).
func (s *Section) Define(key, value string) error {
	if s.Has(key) {
		return &DuplicateKeyError{Section: s.name, Key: key}
	}
	s.setRaw(key, value)
	return nil
}

// SetText unconditionally sets (or overwrites) a key's raw text value. Used
// by the Option Parser (C2) to apply CLI/overlay overrides.
func (s *Section) SetText(key, value string) {
	s.setRaw(key, value)
}

func (s *Section) setRaw(key, value string) {
	if _, exists := s.settings[key]; !exists {
		s.order = append(s.order, key)
	}
	s.settings[key] = value
}

// Clone returns an independent copy of s, so per-instance option overrides
// (applied via SetText) do not leak between module instantiations sharing
// the same declaring Section.
func (s *Section) Clone() *Section {
	clone := NewSection(s.name, s.path)
	for _, key := range s.order {
		clone.setRaw(key, s.settings[key])
	}
	return clone
}

// Merge copies keys absent in s from other; existing keys in s are
// retained (spec.md §3 Section.merge, §4.1).
func (s *Section) Merge(other *Section) {
	for _, key := range other.order {
		if !s.Has(key) {
			s.setRaw(key, other.settings[key])
		}
	}
}

func (s *Section) raw(key string) (string, error) {
	v, ok := s.settings[key]
	if !ok {
		return "", &MissingKeyError{Section: s.name, Key: key}
	}
	return v, nil
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

// GetString returns the unquoted string value of key.
func (s *Section) GetString(key string) (string, error) {
	raw, err := s.raw(key)
	if err != nil {
		return "", err
	}
	return unquote(raw), nil
}

// GetStringDefault returns the string value, or def if the key is missing.
func (s *Section) GetStringDefault(key, def string) (string, error) {
	if !s.Has(key) {
		return def, nil
	}
	return s.GetString(key)
}

// GetBool parses true/false/0/1.
func (s *Section) GetBool(key string) (bool, error) {
	raw, err := s.raw(key)
	if err != nil {
		return false, err
	}
	val := strings.ToLower(strings.TrimSpace(unquote(raw)))
	switch val {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	default:
		return false, &InvalidKeyError{Section: s.name, Key: key, Value: raw, Expected: "bool", Reason: "expected true/false/0/1"}
	}
}

// GetBoolDefault returns the bool value, or def if the key is missing.
func (s *Section) GetBoolDefault(key string, def bool) (bool, error) {
	if !s.Has(key) {
		return def, nil
	}
	return s.GetBool(key)
}

// GetInt parses a plain decimal integer (no unit suffix is accepted for
// integral counts such as number_of_events).
func (s *Section) GetInt(key string) (int64, error) {
	raw, err := s.raw(key)
	if err != nil {
		return 0, err
	}
	v, perr := strconv.ParseInt(strings.TrimSpace(unquote(raw)), 10, 64)
	if perr != nil {
		return 0, &InvalidKeyError{Section: s.name, Key: key, Value: raw, Expected: "int", Reason: perr.Error()}
	}
	return v, nil
}

// GetIntDefault returns the int value, or def if the key is missing.
func (s *Section) GetIntDefault(key string, def int64) (int64, error) {
	if !s.Has(key) {
		return def, nil
	}
	return s.GetInt(key)
}

// GetFloat parses a decimal number with an optional trailing unit token
// resolved through units.
func (s *Section) GetFloat(key string, units UnitRegistry) (float64, error) {
	raw, err := s.raw(key)
	if err != nil {
		return 0, err
	}
	return parseFloatWithUnit(s.name, key, raw, units)
}

// GetFloatDefault returns the float value, or def if the key is missing.
func (s *Section) GetFloatDefault(key string, def float64, units UnitRegistry) (float64, error) {
	if !s.Has(key) {
		return def, nil
	}
	return s.GetFloat(key, units)
}

func parseFloatWithUnit(section, key, raw string, units UnitRegistry) (float64, error) {
	value, unit, err := splitNumericUnit(unquote(raw))
	if err != nil {
		return 0, &InvalidKeyError{Section: section, Key: key, Value: raw, Expected: "float", Reason: err.Error()}
	}
	if unit == "" {
		return value, nil
	}
	if units == nil {
		return 0, &InvalidKeyError{Section: section, Key: key, Value: raw, Expected: "float", Reason: "unit token present but no unit registry supplied"}
	}
	factor, ok := units.Resolve(unit)
	if !ok {
		return 0, &InvalidKeyError{Section: section, Key: key, Value: raw, Expected: "float", Reason: "unknown unit " + strconv.Quote(unit)}
	}
	return value * factor, nil
}

// GetStringArray splits a comma-separated list of strings, trimming and
// unquoting each element.
func (s *Section) GetStringArray(key string) ([]string, error) {
	raw, err := s.raw(key)
	if err != nil {
		return nil, err
	}
	parts := splitList(raw)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = unquote(strings.TrimSpace(p))
	}
	return out, nil
}

// GetFloatArray parses a comma-separated list of numbers (each with an
// optional unit).
func (s *Section) GetFloatArray(key string, units UnitRegistry) ([]float64, error) {
	raw, err := s.raw(key)
	if err != nil {
		return nil, err
	}
	parts := splitList(raw)
	out := make([]float64, len(parts))
	for i, p := range parts {
		v, perr := parseFloatWithUnit(s.name, key, strings.TrimSpace(p), units)
		if perr != nil {
			return nil, perr
		}
		out[i] = v
	}
	return out, nil
}

// Get2Vector parses a fixed-arity 2-element numeric vector.
func (s *Section) Get2Vector(key string, units UnitRegistry) ([2]float64, error) {
	vals, err := s.GetFloatArray(key, units)
	if err != nil {
		return [2]float64{}, err
	}
	if len(vals) != 2 {
		return [2]float64{}, &InvalidValueError{Section: s.name, Key: key, Value: s.settings[key], Reason: "expected 2 comma-separated values"}
	}
	return [2]float64{vals[0], vals[1]}, nil
}

// Get3Vector parses a fixed-arity 3-element numeric vector.
func (s *Section) Get3Vector(key string, units UnitRegistry) ([3]float64, error) {
	vals, err := s.GetFloatArray(key, units)
	if err != nil {
		return [3]float64{}, err
	}
	if len(vals) != 3 {
		return [3]float64{}, &InvalidValueError{Section: s.name, Key: key, Value: s.settings[key], Reason: "expected 3 comma-separated values"}
	}
	return [3]float64{vals[0], vals[1], vals[2]}, nil
}

func splitList(raw string) []string {
	// Commas inside quotes are not treated as separators.
	var parts []string
	var cur strings.Builder
	var quote byte
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '\'' || c == '"':
			if quote == 0 {
				quote = c
			} else if quote == c {
				quote = 0
			}
			cur.WriteByte(c)
		case c == ',' && quote == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// GetPath resolves key as a filesystem path relative to the section's
// originating file. If checkExists, the result is canonicalized and an
// InvalidValueError is raised if it does not exist (spec.md §4.1).
func (s *Section) GetPath(key string, checkExists bool) (string, error) {
	raw, err := s.GetString(key)
	if err != nil {
		return "", err
	}
	var resolved string
	if filepath.IsAbs(raw) {
		resolved = raw
	} else {
		dir := filepath.Dir(s.path)
		resolved = filepath.Join(dir, raw)
	}
	if !checkExists {
		return resolved, nil
	}
	canon, cerr := filepath.EvalSymlinks(resolved)
	if cerr != nil {
		return "", &InvalidValueError{Section: s.name, Key: key, Value: raw, Reason: "path does not exist: " + cerr.Error()}
	}
	return canon, nil
}
