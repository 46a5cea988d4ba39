// Copyright © 2026 The tclint authors

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Plugin is a statically-loaded command specification layer. Plugins are
// plain JSON data; executable plugins are deliberately unsupported so a
// config file can never cause code execution.
type Plugin struct {
	Name     string
	Commands Registry
}

// PluginError reports a malformed plugin file. A plugin with any invalid
// spec is rejected whole.
type PluginError struct {
	Path string
	Err  error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %s", e.Path, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// LoadPlugin reads and validates a plugin spec file:
//
//	{"name": "...", "commands": {"cmd": <spec|null|{"subcommands": ...}>}}
func LoadPlugin(path string) (*Plugin, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &PluginError{Path: path, Err: err}
	}
	p, err := ParsePlugin(data)
	if err != nil {
		return nil, &PluginError{Path: path, Err: err}
	}
	return p, nil
}

// ParsePlugin validates plugin spec data.
func ParsePlugin(data []byte) (*Plugin, error) {
	var raw struct {
		Name     string                     `json:"name"`
		Commands map[string]json.RawMessage `json:"commands"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("plugin requires a 'name' entry")
	}
	if raw.Commands == nil {
		return nil, fmt.Errorf("plugin requires a 'commands' entry")
	}

	reg := make(Registry, len(raw.Commands))
	for name, rawSpec := range raw.Commands {
		spec, err := parseCommandSpec(rawSpec)
		if err != nil {
			return nil, fmt.Errorf("command %q: %w", name, err)
		}
		if spec == nil {
			reg[name] = nil
			continue
		}
		reg[name] = spec.Handler(name)
	}

	return &Plugin{Name: raw.Name, Commands: reg}, nil
}

type rawValue struct {
	Type string `json:"type"`
}

type rawSwitch struct {
	Required bool      `json:"required"`
	Repeated bool      `json:"repeated"`
	Value    *rawValue `json:"value"`
	Metavar  string    `json:"metavar"`
}

type rawPositional struct {
	Name     string   `json:"name"`
	Required bool     `json:"required"`
	Value    rawValue `json:"value"`
}

type rawSpec struct {
	Positionals []rawPositional            `json:"positionals"`
	Switches    map[string]rawSwitch       `json:"switches"`
	Subcommands map[string]json.RawMessage `json:"subcommands"`
}

func parseCommandSpec(data json.RawMessage) (*ArgSpec, error) {
	if string(data) == "null" {
		return nil, nil
	}

	var raw rawSpec
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	if raw.Subcommands != nil {
		if raw.Positionals != nil || raw.Switches != nil {
			return nil, fmt.Errorf("'subcommands' cannot be combined with positionals or switches")
		}
		subs := make(map[string]*ArgSpec, len(raw.Subcommands))
		for sub, rawSub := range raw.Subcommands {
			spec, err := parseCommandSpec(rawSub)
			if err != nil {
				return nil, fmt.Errorf("subcommand %q: %w", sub, err)
			}
			if spec == nil {
				spec = &ArgSpec{}
			}
			subs[sub] = spec
		}
		return &ArgSpec{Subcommands: subs}, nil
	}

	spec := &ArgSpec{Switches: make(map[string]*SwitchSpec, len(raw.Switches))}
	for name, sw := range raw.Switches {
		value := ValueNone
		if sw.Value != nil {
			var err error
			value, err = parseValueType(sw.Value.Type, false)
			if err != nil {
				return nil, fmt.Errorf("switch %q: %w", name, err)
			}
		}
		spec.Switches[name] = &SwitchSpec{
			Required: sw.Required,
			Repeated: sw.Repeated,
			Value:    value,
			Metavar:  sw.Metavar,
		}
	}
	for _, pos := range raw.Positionals {
		if pos.Name == "" {
			return nil, fmt.Errorf("positional requires a 'name' entry")
		}
		value, err := parseValueType(pos.Value.Type, true)
		if err != nil {
			return nil, fmt.Errorf("positional %q: %w", pos.Name, err)
		}
		spec.Positionals = append(spec.Positionals, &PositionalSpec{
			Name:     pos.Name,
			Required: pos.Required,
			Value:    value,
		})
	}
	return spec, nil
}

func parseValueType(typ string, positional bool) (ValueType, error) {
	switch typ {
	case "any":
		return ValueAny, nil
	case "variadic":
		if !positional {
			return 0, fmt.Errorf("value type %q is only valid for positionals", typ)
		}
		return ValueVariadic, nil
	case "script":
		if !positional {
			return 0, fmt.Errorf("value type %q is only valid for positionals", typ)
		}
		return ValueScript, nil
	case "expression":
		if !positional {
			return 0, fmt.Errorf("value type %q is only valid for positionals", typ)
		}
		return ValueExpression, nil
	}
	return 0, fmt.Errorf("unknown value type %q", typ)
}
