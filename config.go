package asm8

import (
	"fmt"
	"sort"
	"strings"

	"github.com/inufuto/asm8/internal/asm/hd61700"
	"github.com/inufuto/asm8/internal/asm/i8086"
	"github.com/inufuto/asm8/internal/asm/mc6809"
	"github.com/inufuto/asm8/internal/asm/sc62015"
	"github.com/inufuto/asm8/internal/asm/sm8521"
	"github.com/inufuto/asm8/internal/asm/tlcs900"
	"github.com/inufuto/asm8/internal/source"
)

// targets maps the upper case name of each target to its constructor.
var targets = map[string]func() source.Target{
	"6809":    func() source.Target { return asm_mc6809.NewTarget() },
	"HD61700": func() source.Target { return asm_hd61700.NewTarget() },
	"SC62015": func() source.Target { return asm_sc62015.NewTarget() },
	"SM8521":  func() source.Target { return asm_sm8521.NewTarget() },
	"8086":    func() source.Target { return asm_i8086.NewTarget() },
	"TLCS900": func() source.Target { return asm_tlcs900.NewTarget() },
}

// Targets returns the names accepted by Config.WithTarget, sorted.
func Targets() []string {
	names := make([]string, 0, len(targets))
	for name := range targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Config controls assembly, with the default implementation as NewConfig.
//
// Config is immutable: each With method returns a new instance including the
// corresponding change.
type Config struct {
	target    string
	origin    int64
	maxErrors int
}

// defaultConfig helps avoid copy/pasting the wrong defaults.
var defaultConfig = &Config{target: "6809"}

// clone ensures all fields are copied.
func (c *Config) clone() *Config {
	ret := *c
	return &ret
}

// NewConfig returns a Config for the 6809, starting at address zero and
// reporting every error.
func NewConfig() *Config {
	return defaultConfig.clone()
}

// WithTarget selects the instruction set by name, ignoring case. See Targets.
// An unknown name fails Assemble.
func (c *Config) WithTarget(name string) *Config {
	ret := c.clone()
	ret.target = strings.ToUpper(name)
	return ret
}

// WithOrigin sets the address of the first byte of the code segment. An ORG
// directive in the source overrides it.
func (c *Config) WithOrigin(origin int64) *Config {
	ret := c.clone()
	ret.origin = origin
	return ret
}

// WithMaxErrors limits the number of diagnostics returned by Assemble. Zero,
// the default, returns them all.
func (c *Config) WithMaxErrors(n int) *Config {
	ret := c.clone()
	ret.maxErrors = n
	return ret
}

// Target returns the name of the selected instruction set.
func (c *Config) Target() string {
	return c.target
}

func (c *Config) validate() (source.Target, error) {
	newTarget, ok := targets[c.target]
	if !ok {
		return nil, fmt.Errorf("unknown target %q, expected one of %s", c.target, strings.Join(Targets(), ", "))
	}
	if c.origin < 0 {
		return nil, fmt.Errorf("invalid origin %d", c.origin)
	}
	if c.maxErrors < 0 {
		return nil, fmt.Errorf("invalid max errors %d", c.maxErrors)
	}
	return newTarget(), nil
}
