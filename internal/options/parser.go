// Package options implements the CLI/overlay option parser (spec.md §4.2,
// C2): textual "[qualifier.]key = value" overrides routed to the global
// configuration, a module class, or a single module instance.
package options

import (
	"fmt"
	"strings"

	"github.com/nmxmxh/pixelsim/internal/config"
)

type kv struct {
	key, value string
}

// MalformedOptionError is raised when a CLI -o/-g argument is not of the
// form "[qualifier.]key = value".
type MalformedOptionError struct {
	Option string
}

func (e *MalformedOptionError) Error() string {
	return fmt.Sprintf("malformed option %q: expected key=value", e.Option)
}

// Parser accumulates parsed options. The precedence order of spec.md §4.2
// (global first, then class, then instance) comes from the order in which
// the caller invokes ApplyGlobal and ApplyTo; the Parser does not impose it.
type Parser struct {
	global     []kv
	identified map[string][]kv
}

// NewParser returns an empty option parser.
func NewParser() *Parser {
	return &Parser{identified: make(map[string][]kv)}
}

// ParseOption records one "[qualifier.]key = value" line. The qualifier is
// the prefix up to the first dot in the key; its absence means a global
// override.
func (p *Parser) ParseOption(line string) error {
	line = strings.TrimSpace(line)
	eq := strings.IndexByte(line, '=')
	if eq == -1 {
		return &MalformedOptionError{Option: line}
	}
	key := strings.TrimSpace(line[:eq])
	value := strings.TrimSpace(line[eq+1:])

	if dot := strings.IndexByte(key, '.'); dot == -1 {
		p.global = append(p.global, kv{key, value})
	} else {
		identifier := key[:dot]
		rest := key[dot+1:]
		p.identified[identifier] = append(p.identified[identifier], kv{rest, value})
	}
	return nil
}

// ApplyGlobal applies every recorded global override to cfg, in recording
// order (later applications overwrite earlier ones). Returns whether any
// change occurred.
func (p *Parser) ApplyGlobal(cfg *config.Section) bool {
	for _, pair := range p.global {
		cfg.SetText(pair.key, pair.value)
	}
	return len(p.global) > 0
}

// ApplyTo applies every override recorded under identifier (a module class
// name or a module unique name) to cfg. Returns whether any change
// occurred.
func (p *Parser) ApplyTo(identifier string, cfg *config.Section) bool {
	pairs, ok := p.identified[identifier]
	if !ok {
		return false
	}
	for _, pair := range pairs {
		cfg.SetText(pair.key, pair.value)
	}
	return true
}
