package config

import (
	"regexp"
	"strconv"
	"strings"
)

// UnitRegistry resolves a trailing unit token on a numeric setting (e.g.
// "um", "ns", "V") to a multiplicative factor applied to the parsed number.
// The registry is external to the config store, per spec.md §4.1 — modules
// and the host runtime provide the concrete table.
type UnitRegistry interface {
	Resolve(token string) (factor float64, ok bool)
}

// DefaultUnits is a small built-in table covering the units most frequently
// seen in pixel-detector configuration files. Callers may supply a richer
// registry. It is not applied implicitly: a value carrying a unit token
// read with a nil registry is an InvalidKeyError.
type DefaultUnits map[string]float64

// Resolve implements UnitRegistry.
func (u DefaultUnits) Resolve(token string) (float64, bool) {
	f, ok := u[token]
	return f, ok
}

// NewDefaultUnits returns the base unit table: length in millimeters,
// time in nanoseconds, voltage in volts, charge in elementary charges.
func NewDefaultUnits() DefaultUnits {
	return DefaultUnits{
		"":   1,
		"nm": 1e-6,
		"um": 1e-3,
		"mm": 1,
		"cm": 10,
		"m":  1e3,
		"ps": 1e-3,
		"ns": 1,
		"us": 1e3,
		"ms": 1e6,
		"s":  1e9,
		"V":  1,
		"kV": 1e3,
		"mV": 1e-3,
		"e":  1,
		"ke": 1e3,
		"C":  1,
		"K":  1,
		"T":  1,
		"deg": 1,
		"rad": 180 / 3.141592653589793,
	}
}

var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// splitNumericUnit separates a numeric prefix from a trailing unit token,
// e.g. "100um" -> (100, "um"), "2.5e-3ns" -> (2.5e-3, "ns"), "42" -> (42, "").
func splitNumericUnit(raw string) (value float64, unit string, err error) {
	raw = strings.TrimSpace(raw)
	loc := numericPrefix.FindStringIndex(raw)
	if loc == nil || loc[0] != 0 {
		return 0, "", strconv.ErrSyntax
	}
	numPart := raw[:loc[1]]
	unitPart := strings.TrimSpace(raw[loc[1]:])
	value, err = strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, "", err
	}
	return value, unitPart, nil
}
