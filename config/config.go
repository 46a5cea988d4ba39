// Copyright © 2026 The tclint authors

// Package config loads tclint configuration from TOML files and resolves
// per-path settings through fileset sections.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/luthersystems/tclint/diagnostic"
)

// DefaultFiles are the config file names searched in the working
// directory, in order.
var DefaultFiles = []string{"tclint.toml", ".tclint"}

// Error reports a malformed configuration. No analysis proceeds when
// configuration is invalid.
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

func errorf(path, format string, args ...interface{}) error {
	return &Error{Path: path, Msg: fmt.Sprintf(format, args...)}
}

// IndentStyle selects how one indentation level is rendered.
type IndentStyle int

const (
	IndentSpaces IndentStyle = iota
	IndentTab
	IndentMixed
)

// Indent describes the configured indentation unit: "tab", a number of
// spaces, or "mixed,<spaces>,<tabwidth>" which renders a level of
// <spaces> columns using tabs of <tabwidth> columns plus spaces.
type Indent struct {
	Style    IndentStyle
	Spaces   int
	TabWidth int
}

// DefaultIndent is four spaces.
var DefaultIndent = Indent{Style: IndentSpaces, Spaces: 4}

// Prefix returns the leading whitespace for the given nesting level.
func (in Indent) Prefix(level int) string {
	if level <= 0 {
		return ""
	}
	switch in.Style {
	case IndentTab:
		return strings.Repeat("\t", level)
	case IndentMixed:
		cols := level * in.Spaces
		return strings.Repeat("\t", cols/in.TabWidth) +
			strings.Repeat(" ", cols%in.TabWidth)
	default:
		return strings.Repeat(" ", level*in.Spaces)
	}
}

func (in Indent) String() string {
	switch in.Style {
	case IndentTab:
		return "tab"
	case IndentMixed:
		return fmt.Sprintf("mixed,%d,%d", in.Spaces, in.TabWidth)
	default:
		return strconv.Itoa(in.Spaces)
	}
}

func parseIndent(v interface{}) (Indent, error) {
	switch val := v.(type) {
	case int64:
		if val <= 0 {
			return Indent{}, fmt.Errorf("indent must be positive")
		}
		return Indent{Style: IndentSpaces, Spaces: int(val)}, nil
	case string:
		if val == "tab" {
			return Indent{Style: IndentTab, Spaces: 8, TabWidth: 8}, nil
		}
		if rest, ok := strings.CutPrefix(val, "mixed,"); ok {
			parts := strings.Split(rest, ",")
			if len(parts) != 2 {
				return Indent{}, fmt.Errorf("indent must be 'mixed,<spaces>,<tabwidth>'")
			}
			spaces, err1 := strconv.Atoi(parts[0])
			tabWidth, err2 := strconv.Atoi(parts[1])
			if err1 != nil || err2 != nil || spaces <= 0 || tabWidth <= 0 {
				return Indent{}, fmt.Errorf("indent must be 'mixed,<spaces>,<tabwidth>'")
			}
			return Indent{Style: IndentMixed, Spaces: spaces, TabWidth: tabWidth}, nil
		}
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return Indent{Style: IndentSpaces, Spaces: n}, nil
		}
	}
	return Indent{}, fmt.Errorf("indent must be an integer, 'tab', or 'mixed,<s>,<t>'")
}

// Style holds the style thresholds shared by the linter and formatter.
type Style struct {
	Indent              Indent
	LineLength          int
	MaxBlankLines       int
	IndentNamespaceEval bool
	SpacesInBraces      bool
	AllowAlignedSets    bool
}

// IgnoreEntry suppresses rules globally or under a path prefix.
type IgnoreEntry struct {
	// Path restricts the suppression to files under this path. Empty
	// means everywhere.
	Path  string
	Rules []diagnostic.Rule
}

// Config is the effective configuration for analyzing one file.
type Config struct {
	Exclude    []string
	Ignore     []IgnoreEntry
	Extensions []string
	// Commands is the path of a static JSON command-spec plugin.
	Commands string
	Style    Style
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extensions: []string{"tcl", "sdc", "xdc", "upf"},
		Style: Style{
			Indent:              DefaultIndent,
			LineLength:          100,
			MaxBlankLines:       2,
			IndentNamespaceEval: true,
			SpacesInBraces:      false,
			AllowAlignedSets:    false,
		},
	}
}

// Fileset overrides settings for files under a set of paths.
type Fileset struct {
	Paths  []string
	Config *Config
}

// RunConfig is the top-level configuration: global settings plus fileset
// overrides.
type RunConfig struct {
	Global   *Config
	Filesets []*Fileset
}

// DefaultRunConfig returns a RunConfig holding only defaults.
func DefaultRunConfig() *RunConfig {
	return &RunConfig{Global: Default()}
}

// ForPath returns the configuration for a file path. The first fileset
// whose paths contain the file wins; otherwise the global config applies.
func (rc *RunConfig) ForPath(path string) *Config {
	if path == "" {
		return rc.Global
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return rc.Global
	}
	for _, fs := range rc.Filesets {
		for _, p := range fs.Paths {
			fsAbs, err := filepath.Abs(p)
			if err != nil {
				continue
			}
			if isRelativeTo(abs, fsAbs) {
				return fs.Config
			}
		}
	}
	return rc.Global
}

func isRelativeTo(path, base string) bool {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

// rawStyle mirrors the [style] TOML table. Pointer fields distinguish
// "absent" from zero values so filesets can override selectively.
type rawStyle struct {
	Indent              interface{} `toml:"indent"`
	LineLength          *int        `toml:"line-length"`
	MaxBlankLines       *int        `toml:"max-blank-lines"`
	IndentNamespaceEval *bool       `toml:"indent-namespace-eval"`
	SpacesInBraces      *bool       `toml:"spaces-in-braces"`
	AllowAlignedSets    *bool       `toml:"allow-aligned-sets"`
}

type rawFileset struct {
	Paths    []string      `toml:"paths"`
	Ignore   []interface{} `toml:"ignore"`
	Commands *string       `toml:"commands"`
	Style    rawStyle      `toml:"style"`
}

type rawConfig struct {
	Exclude    []string      `toml:"exclude"`
	Ignore     []interface{} `toml:"ignore"`
	Extensions []string      `toml:"extensions"`
	Commands   *string       `toml:"commands"`
	Style      rawStyle      `toml:"style"`
	Fileset    []rawFileset  `toml:"fileset"`
}

// Load reads and validates a TOML configuration file.
func Load(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rc, err := Parse(data)
	if err != nil {
		if cfgErr, ok := err.(*Error); ok {
			cfgErr.Path = path
		}
		return nil, err
	}
	return rc, nil
}

// Find searches the working directory for a default config file. It
// returns DefaultRunConfig when none exists.
func Find() (*RunConfig, error) {
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return Load(name)
		}
	}
	return DefaultRunConfig(), nil
}

// Parse validates TOML configuration data.
func Parse(data []byte) (*RunConfig, error) {
	var raw rawConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, errorf("", "%s", err)
	}
	for _, key := range md.Undecoded() {
		// Tables inside an ignore array decode into interface{} values, so
		// the decoder lists their keys as undecoded; applyIgnore validates
		// those keys itself.
		if key[0] == "ignore" || (len(key) > 1 && key[0] == "fileset" && key[1] == "ignore") {
			continue
		}
		return nil, errorf("", "unknown config key %q", key.String())
	}

	global := Default()
	global.Exclude = raw.Exclude
	if raw.Extensions != nil {
		global.Extensions = raw.Extensions
	}
	if raw.Commands != nil {
		global.Commands = *raw.Commands
	}
	if err := applyIgnore(global, raw.Ignore); err != nil {
		return nil, err
	}
	if err := applyStyle(&global.Style, raw.Style); err != nil {
		return nil, err
	}

	rc := &RunConfig{Global: global}
	for _, rawFS := range raw.Fileset {
		if len(rawFS.Paths) == 0 {
			return nil, errorf("", "'fileset' table requires 'paths' entry")
		}
		cfg := global.clone()
		if rawFS.Commands != nil {
			cfg.Commands = *rawFS.Commands
		}
		if rawFS.Ignore != nil {
			cfg.Ignore = nil
			if err := applyIgnore(cfg, rawFS.Ignore); err != nil {
				return nil, err
			}
		}
		if err := applyStyle(&cfg.Style, rawFS.Style); err != nil {
			return nil, err
		}
		rc.Filesets = append(rc.Filesets, &Fileset{Paths: rawFS.Paths, Config: cfg})
	}

	return rc, nil
}

func (c *Config) clone() *Config {
	dup := *c
	dup.Exclude = append([]string(nil), c.Exclude...)
	dup.Ignore = append([]IgnoreEntry(nil), c.Ignore...)
	dup.Extensions = append([]string(nil), c.Extensions...)
	return &dup
}

func applyStyle(style *Style, raw rawStyle) error {
	if raw.Indent != nil {
		indent, err := parseIndent(raw.Indent)
		if err != nil {
			return errorf("", "%s", err)
		}
		style.Indent = indent
	}
	if raw.LineLength != nil {
		if *raw.LineLength <= 0 {
			return errorf("", "line-length must be positive")
		}
		style.LineLength = *raw.LineLength
	}
	if raw.MaxBlankLines != nil {
		if *raw.MaxBlankLines < 0 {
			return errorf("", "max-blank-lines must be non-negative")
		}
		style.MaxBlankLines = *raw.MaxBlankLines
	}
	if raw.IndentNamespaceEval != nil {
		style.IndentNamespaceEval = *raw.IndentNamespaceEval
	}
	if raw.SpacesInBraces != nil {
		style.SpacesInBraces = *raw.SpacesInBraces
	}
	if raw.AllowAlignedSets != nil {
		style.AllowAlignedSets = *raw.AllowAlignedSets
	}
	return nil
}

func applyIgnore(cfg *Config, entries []interface{}) error {
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			if !diagnostic.ValidRule(v) {
				return errorf("", "invalid rule ID provided for 'ignore': %q", v)
			}
			cfg.Ignore = append(cfg.Ignore, IgnoreEntry{
				Rules: []diagnostic.Rule{diagnostic.Rule(v)},
			})
		case map[string]interface{}:
			path, _ := v["path"].(string)
			if path == "" {
				return errorf("", "'ignore' table requires 'path' entry")
			}
			rawRules, ok := v["rules"].([]interface{})
			if !ok {
				return errorf("", "'ignore' table requires 'rules' entry")
			}
			for k := range v {
				if k != "path" && k != "rules" {
					return errorf("", "unknown key %q in 'ignore' table", k)
				}
			}
			var rules []diagnostic.Rule
			for _, r := range rawRules {
				id, ok := r.(string)
				if !ok || !diagnostic.ValidRule(id) {
					return errorf("", "invalid rule ID provided for 'ignore': %v", r)
				}
				rules = append(rules, diagnostic.Rule(id))
			}
			cfg.Ignore = append(cfg.Ignore, IgnoreEntry{Path: path, Rules: rules})
		default:
			return errorf("", "'ignore' entries must be rule IDs or {path, rules} tables")
		}
	}
	return nil
}
