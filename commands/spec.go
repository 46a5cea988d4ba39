// Copyright © 2026 The tclint authors

package commands

import (
	"sort"
	"strings"

	"github.com/luthersystems/tclint/parser/ast"
)

// ValueType describes what follows a switch or fills a positional slot.
type ValueType int

const (
	// ValueNone marks a bare flag switch.
	ValueNone ValueType = iota
	// ValueAny accepts a single arbitrary word.
	ValueAny
	// ValueVariadic greedily accepts the remaining words (positionals only).
	ValueVariadic
	// ValueScript re-parses the word as a script (positionals only).
	ValueScript
	// ValueExpression re-parses the word as an expr expression
	// (positionals only).
	ValueExpression
)

// SwitchSpec describes a single -switch.
type SwitchSpec struct {
	Required bool
	Repeated bool
	Value    ValueType
	Metavar  string
}

// PositionalSpec describes one positional argument slot.
type PositionalSpec struct {
	Name     string
	Required bool
	Value    ValueType
}

// ArgSpec is a declarative argument grammar for a command. When
// Subcommands is non-nil the first argument selects a sub-spec; the ""
// key, if present, handles arguments that match no subcommand name.
type ArgSpec struct {
	Switches    map[string]*SwitchSpec
	Positionals []*PositionalSpec
	Subcommands map[string]*ArgSpec
}

// Handler compiles the spec into a HandlerFunc for the registry.
func (s *ArgSpec) Handler(command string) HandlerFunc {
	return func(args []ast.Node, p Parser) ([]ast.Node, error) {
		return checkArgSpec(command, args, p, s)
	}
}

func checkArgSpec(command string, args []ast.Node, p Parser, spec *ArgSpec) ([]ast.Node, error) {
	if spec == nil {
		return nil, nil
	}
	if spec.Subcommands != nil {
		return dispatchSubSpecs(command, args, p, spec.Subcommands)
	}

	required := make(map[string]bool)
	seen := make(map[string]bool)
	for name, sw := range spec.Switches {
		if sw.Required {
			required[name] = true
		}
	}

	var positionals []int // indices into args
	switchesDone := len(spec.Switches) == 0

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if switchesDone {
			positionals = append(positionals, i)
			continue
		}

		bare, ok := arg.(*ast.BareWord)
		if !ok || len(bare.Text) == 0 || bare.Text[0] != '-' {
			positionals = append(positionals, i)
			continue
		}
		if bare.Text == "--" {
			switchesDone = true
			continue
		}

		sw, known := spec.Switches[bare.Text]
		if !known {
			// Unknown switch-like words count as positionals, consistent
			// with how Tcl commands treat them.
			positionals = append(positionals, i)
			continue
		}

		if seen[bare.Text] && !sw.Repeated {
			return nil, ArgErrorf("duplicate argument for %s: %s", command, bare.Text)
		}
		seen[bare.Text] = true
		delete(required, bare.Text)

		if sw.Value != ValueNone {
			i++
			if i >= len(args) {
				return nil, ArgErrorf(
					"invalid arguments for %s: expected value after %s",
					command, bare.Text)
			}
		}
	}

	if len(required) > 0 {
		missing := make([]string, 0, len(required))
		for name := range required {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		if len(missing) > 1 {
			return nil, ArgErrorf("missing required arguments for %s: %s",
				command, strings.Join(missing, ", "))
		}
		return nil, ArgErrorf("missing required argument for %s: %s", command, missing[0])
	}

	posArgs := make([]ast.Node, len(positionals))
	for i, idx := range positionals {
		posArgs[i] = args[idx]
	}
	mapping, err := mapPositionals(posArgs, spec.Positionals, command)
	if err != nil {
		return nil, err
	}

	out := make([]ast.Node, len(args))
	copy(out, args)
	changed := false
	for i, specIdxs := range mapping {
		argIdx := positionals[i]
		switch {
		case positionalHasType(ValueScript, spec.Positionals, specIdxs):
			parsed, err := p.ParseScript(out[argIdx])
			if err != nil {
				return nil, err
			}
			out[argIdx] = parsed
			changed = true
		case positionalHasType(ValueExpression, spec.Positionals, specIdxs):
			parsed, err := p.ParseExpression(out[argIdx])
			if err != nil {
				return nil, err
			}
			out[argIdx] = parsed
			changed = true
		}
	}

	if !changed {
		return nil, nil
	}
	return out, nil
}

func positionalHasType(typ ValueType, spec []*PositionalSpec, idxs []int) bool {
	for _, i := range idxs {
		if spec[i].Value == typ {
			return true
		}
	}
	return false
}

func dispatchSubSpecs(command string, args []ast.Node, p Parser, subs map[string]*ArgSpec) ([]ast.Node, error) {
	var sub string
	var concrete bool
	if len(args) > 0 {
		sub, concrete = ast.Contents(args[0])
	}

	if concrete {
		if subSpec, ok := subs[sub]; ok {
			newArgs, err := checkArgSpec(command+" "+sub, args[1:], p, subSpec)
			if err != nil {
				return nil, err
			}
			if newArgs == nil {
				return nil, nil
			}
			return append([]ast.Node{args[0]}, newArgs...), nil
		}
	}

	if dflt, ok := subs[""]; ok {
		return checkArgSpec(command, args, p, dflt)
	}

	known := make([]string, 0, len(subs))
	for s := range subs {
		known = append(known, s)
	}
	sort.Strings(known)

	if concrete {
		return nil, ArgErrorf("invalid subcommand for %s: got %s, expected one of %s",
			command, sub, strings.Join(known, ", "))
	}
	return nil, ArgErrorf("no subcommand provided for %s, expected one of %s",
		command, strings.Join(known, ", "))
}

// mapPositionals maps positional argument words to slots of the
// positional spec. The result has one entry per element of args listing
// the spec indices that argument maps to: a variadic slot may repeat
// across entries, and an arg expansion may absorb several required
// slots. Argument count errors are reported through ArgError.
func mapPositionals(args []ast.Node, spec []*PositionalSpec, command string) ([][]int, error) {
	if len(args) == len(spec) {
		mapping := make([][]int, len(args))
		for i := range args {
			mapping[i] = []int{i}
		}
		return mapping, nil
	}

	var mapping [][]int
	i := 0

	if len(args) > len(spec) {
		// More arguments than slots: map greedily and let the first
		// variadic absorb the extras.
		extra := len(args) - len(spec)
		for range args {
			if i >= len(spec) {
				return nil, ArgErrorf(
					"too many arguments for %s: got %d, expected no more than %d",
					command, len(args), len(spec))
			}
			mapping = append(mapping, []int{i})
			if spec[i].Value == ValueVariadic && extra > 0 {
				extra--
			} else {
				i++
			}
		}
		return mapping, nil
	}

	var requiredNames []string
	for _, ps := range spec {
		if ps.Required {
			requiredNames = append(requiredNames, ps.Name)
		}
	}
	numRequired := len(requiredNames)

	if len(args) < numRequired {
		// Fewer arguments than required slots: map required slots only and
		// let the first arg expansion account for what's missing.
		missing := numRequired - len(args)
		for _, arg := range args {
			for !spec[i].Required {
				i++
			}
			mapping = append(mapping, []int{i})
			i++

			if _, ok := arg.(*ast.ArgExpansion); ok {
				for missing > 0 && i < len(spec) {
					if spec[i].Required {
						mapping[len(mapping)-1] = append(mapping[len(mapping)-1], i)
						missing--
					}
					i++
				}
			}
		}
		if missing > 0 {
			names := requiredNames[len(requiredNames)-missing:]
			plural := ""
			if missing > 1 {
				plural = "s"
			}
			return nil, ArgErrorf("missing required argument%s for %s: %s",
				plural, command, strings.Join(names, ", "))
		}
		return mapping, nil
	}

	// Between required and total: fill required slots and as many
	// optionals as the count allows, in order.
	optionals := len(args) - numRequired
	for range args {
		if !spec[i].Required && optionals > 0 {
			mapping = append(mapping, []int{i})
			i++
			optionals--
			continue
		}
		for !spec[i].Required {
			i++
		}
		mapping = append(mapping, []int{i})
		i++
	}
	return mapping, nil
}
