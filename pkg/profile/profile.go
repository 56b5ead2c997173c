// Package profile provides sender profile presets for rendered documents.
package profile

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/pigeonworks-llc/bookkeeper/pkg/document"
)

// Built-in preset names.
const (
	Business = "business"
	Personal = "personal"
)

// builtins are the presets available without a profiles file.
var builtins = map[string]document.SenderProfile{
	Business: {
		TaxID: "12 345 678 901",
		Phone: "+61 400 000 000",
		Email: "finance@example.com.au",
	},
	Personal: {
		TaxID: "98 765 432 100",
		Phone: "+61 400 111 222",
		Email: "me@example.com.au",
	},
}

// File is the YAML layout of a profiles file.
//
//	profiles:
//	  studio:
//	    tax_id: "11 222 333 444"
//	    phone: "+61 2 9000 0000"
//	    email: "accounts@studio.example"
type File struct {
	Profiles map[string]document.SenderProfile `yaml:"profiles"`
}

// Presets maps preset names to sender profiles.
type Presets struct {
	profiles map[string]document.SenderProfile
}

// Builtin returns the built-in presets only.
func Builtin() *Presets {
	p := &Presets{profiles: make(map[string]document.SenderProfile, len(builtins))}
	for name, sp := range builtins {
		p.profiles[name] = sp
	}
	return p
}

// Load returns the built-in presets overlaid with those defined in a YAML file.
// An empty path yields the built-ins only.
func Load(path string) (*Presets, error) {
	p := Builtin()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for name, sp := range file.Profiles {
		p.profiles[name] = sp
	}

	return p, nil
}

// Lookup returns the sender profile registered under name.
func (p *Presets) Lookup(name string) (document.SenderProfile, error) {
	if sp, ok := p.profiles[name]; ok {
		return sp, nil
	}
	return document.SenderProfile{}, fmt.Errorf("unknown sender profile %q (available: %v)", name, p.Names())
}

// Names returns the registered preset names in sorted order.
func (p *Presets) Names() []string {
	names := make([]string, 0, len(p.profiles))
	for name := range p.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
