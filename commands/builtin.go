// Copyright © 2026 The tclint authors

// Parse-time handling of Tcl's builtin commands.
//
// Not currently covered: TclOO (my, next, class, copy, define, object,
// self), packages imported via `package require` (http, msgcat, platform,
// tcltest, ...), the Tcl library commands, and the math ops namespaces.

package commands

import (
	"strconv"
	"strings"

	"github.com/luthersystems/tclint/parser/ast"
)

// DefaultRegistry returns the builtin Tcl command table. The registry is
// freshly built per call so layered plugin registries never share state.
func DefaultRegistry() Registry {
	return Registry{
		"after": Subcommands("after", map[string]HandlerFunc{
			"cancel": CheckCount("after cancel", 1, -1),
			"idle":   afterIdle,
			"info":   CheckCount("after info", 0, 1),
		}, after),
		"append": CheckCount("append", 1, -1),
		"apply":  apply,
		"array":  CheckCount("array", -1, -1),
		"binary": Subcommands("binary", map[string]HandlerFunc{
			"decode": CheckCount("binary decode", 2, -1),
			"encode": CheckCount("binary encode", 2, -1),
			"format": CheckCount("binary format", 1, -1),
			"scan":   CheckCount("binary scan", 2, -1),
		}, nil),
		"break":     CheckCount("break", 0, 0),
		"catch":     catch,
		"cd":        CheckCount("cd", 0, 1),
		"chan":      CheckCount("chan", -1, -1),
		"clock":     CheckCount("clock", -1, -1),
		"close":     CheckCount("close", 1, 2),
		"concat":    CheckCount("concat", -1, -1),
		"continue":  CheckCount("continue", 0, 0),
		"coroutine": CheckCount("coroutine", 2, -1),
		"dict": Subcommands("dict", map[string]HandlerFunc{
			"append":  CheckCount("dict append", 2, -1),
			"create":  CheckCount("dict create", -1, -1),
			"exists":  CheckCount("dict exists", 2, -1),
			"filter":  dictFilter,
			"for":     dictMapFor("dict for"),
			"get":     CheckCount("dict get", 1, -1),
			"incr":    CheckCount("dict incr", 2, 3),
			"info":    CheckCount("dict info", 1, 1),
			"keys":    CheckCount("dict keys", 1, 2),
			"lappend": CheckCount("dict lappend", 2, -1),
			"map":     dictMapFor("dict map"),
			"merge":   CheckCount("dict merge", -1, -1),
			"remove":  CheckCount("dict remove", 1, -1),
			"replace": CheckCount("dict replace", 1, -1),
			"set":     CheckCount("dict set", 3, -1),
			"size":    CheckCount("dict size", 1, 1),
			"unset":   CheckCount("dict unset", 2, -1),
			"update":  dictUpdate,
			"values":  CheckCount("dict values", 1, 2),
			"with":    dictWith,
		}, nil),
		"encoding": Subcommands("encoding", map[string]HandlerFunc{
			"convertfrom": CheckCount("encoding convertfrom", 1, 2),
			"convertto":   CheckCount("encoding convertto", 1, 2),
			"dirs":        CheckCount("encoding dirs", 0, 1),
			"names":       CheckCount("encoding names", 0, 0),
			"system":      CheckCount("encoding system", 0, 1),
		}, nil),
		"eof":       CheckCount("eof", 1, 1),
		"error":     CheckCount("error", 1, 3),
		"eval":      eval,
		"exec":      CheckCount("exec", 1, -1),
		"exit":      CheckCount("exit", 0, 1),
		"expr":      expr,
		"fblocked":  CheckCount("fblocked", 1, 1),
		"fconfigure": CheckCount("fconfigure", 1, -1),
		"fcopy":     CheckCount("fcopy", 2, 6),
		"file":      CheckCount("file", 1, -1),
		"fileevent": fileevent,
		"flush":     CheckCount("flush", 1, 1),
		"for":       forCmd,
		"foreach":   foreach,
		"format":    CheckCount("format", 1, -1),
		"gets":      CheckCount("gets", 1, 2),
		"glob":      CheckCount("glob", -1, -1),
		"global":    CheckCount("global", -1, -1),
		"history":   CheckCount("history", -1, -1),
		"if":        ifCmd,
		"incr":      CheckCount("incr", 1, 2),
		"info":      CheckCount("info", 1, -1),
		"interp": Subcommands("interp", map[string]HandlerFunc{
			"eval": interpEval,
		}, CheckCount("interp", 1, -1)),
		"join":    CheckCount("join", 1, 2),
		"lappend": CheckCount("lappend", 1, -1),
		"lassign": CheckCount("lassign", 1, -1),
		"lindex":  CheckCount("lindex", 1, -1),
		"linsert": CheckCount("linsert", 2, -1),
		"list":    CheckCount("list", 0, -1),
		"llength": CheckCount("llength", 1, 1),
		"lrepeat": CheckCount("lrepeat", 1, -1),
		"lreplace": CheckCount("lreplace", 3, -1),
		"lreverse": CheckCount("lreverse", 1, 1),
		"lset":    CheckCount("lset", 2, -1),
		"lsort":   CheckCount("lsort", 1, -1),
		"lmap":    lmap,
		"load":    CheckCount("load", 1, 6),
		"lrange":  CheckCount("lrange", 3, 3),
		"lsearch": CheckCount("lsearch", 2, -1),
		"memory": Subcommands("memory", map[string]HandlerFunc{
			"active":             CheckCount("memory active", 1, 1),
			"break_on_malloc":    CheckCount("memory break_on_malloc", 1, 1),
			"info":               CheckCount("memory info", 0, 0),
			"init":               CheckCount("memory init", 1, 1),
			"objs":               CheckCount("memory objs", 1, 1),
			"onexit":             CheckCount("memory onexit", 1, 1),
			"tag":                CheckCount("memory tag", 1, 1),
			"trace":              CheckCount("memory trace", 1, 1),
			"trace_on_at_malloc": CheckCount("memory trace_on_at_malloc", 1, 1),
			"validate":           CheckCount("memory validate", 1, 1),
		}, nil),
		"namespace": Subcommands("namespace", map[string]HandlerFunc{
			"children":   CheckCount("namespace children", 0, 2),
			"code":       namespaceCode,
			"current":    CheckCount("namespace current", 0, 0),
			"delete":     nil,
			"eval":       namespaceEval,
			"exists":     CheckCount("namespace exists", 1, 1),
			"export":     nil,
			"forget":     nil,
			"import":     nil,
			"inscope":    namespaceInscope,
			"origin":     CheckCount("namespace origin", 1, 1),
			"parent":     CheckCount("namespace parent", 0, 1),
			"qualifiers": CheckCount("namespace qualifiers", 1, 1),
			"tail":       CheckCount("namespace tail", 1, 1),
			"which":      CheckCount("namespace which", 1, 2),
			"ensemble": Subcommands("namespace ensemble", map[string]HandlerFunc{
				"create":    nil,
				"configure": CheckCount("namespace ensemble configure", 1, -1),
				"exists":    CheckCount("namespace ensemble exists", 1, 1),
			}, nil),
		}, nil),
		"open": CheckCount("open", 1, 3),
		"package": Subcommands("package", map[string]HandlerFunc{
			"forget":     nil,
			"ifneeded":   packageIfneeded,
			"names":      CheckCount("package names", 0, 0),
			"present":    CheckCount("package present", 0, -1),
			"provide":    CheckCount("package provide", 1, 2),
			"require":    CheckCount("package require", 1, -1),
			"unknown":    CheckCount("package unknown", 1, -1),
			"vcompare":   CheckCount("package vcompare", 2, 2),
			"versions":   CheckCount("package versions", 1, 1),
			"vsatisfies": CheckCount("package vsatisfies", 2, -1),
			"prefer":     CheckCount("package prefer", 1, 1),
		}, nil),
		"pid":         CheckCount("pid", 0, 1),
		"pkg::create": CheckCount("pkg::create", 2, -1),
		"pkg_mkIndex": CheckCount("pkg_mkIndex", 1, -1),
		"proc":        proc,
		"puts":        CheckCount("puts", 1, 3),
		"pwd":         CheckCount("pwd", 0, 0),
		"read":        CheckCount("read", 1, 2),
		"regexp":      CheckCount("regexp", 2, -1),
		"regsub":      CheckCount("regsub", 3, -1),
		"rename":      CheckCount("rename", 2, 2),
		"return":      returnCmd,
		"safe":        CheckCount("safe", 1, -1),
		"scan":        CheckCount("scan", 2, -1),
		"seek":        CheckCount("seek", 2, 3),
		"set":         CheckCount("set", 1, 2),
		"socket":      CheckCount("socket", 2, -1),
		"source":      CheckCount("source", 1, 3),
		"split":       CheckCount("split", 1, 2),
		"string":      CheckCount("string", 2, -1),
		"subst":       CheckCount("subst", 1, 4),
		"switch":      switchCmd,
		"tailcall":    CheckCount("tailcall", 1, -1),
		"tcl::prefix": Subcommands("tcl::prefix", map[string]HandlerFunc{
			"all":     CheckCount("tcl::prefix all", 2, 2),
			"longest": CheckCount("tcl::prefix longest", 2, 2),
			"match":   CheckCount("tcl::prefix match", 2, -1),
		}, nil),
		"tell":     CheckCount("tell", 1, 1),
		"throw":    CheckCount("throw", 2, 2),
		"time":     timeCmd,
		"timerate": timerate,
		"tcl::tm::path": Subcommands("tcl::tm::path", map[string]HandlerFunc{
			"add":    CheckCount("tcl::tm::path add", -1, -1),
			"remove": CheckCount("tcl::tm::path remove", -1, -1),
			"list":   CheckCount("tcl::tm::path list", 0, 0),
		}, nil),
		"tcl::tm::roots": CheckCount("tcl::tm::roots", -1, -1),
		"trace":          CheckCount("trace", 2, -1),
		"try":            try,
		"unload":         CheckCount("unload", 1, 6),
		"unset":          CheckCount("unset", -1, -1),
		"update":         CheckCount("update", 0, 1),
		"uplevel":        uplevel,
		"upvar":          CheckCount("upvar", 2, -1),
		"variable":       CheckCount("variable", 1, -1),
		"vwait":          CheckCount("vwait", 1, 1),
		"while":          whileCmd,
		"yield":          CheckCount("yield", 0, 1),
		"yieldto":        CheckCount("yieldto", 2, -1),
		"zlib":           CheckCount("zlib", 3, -1),
	}
}

// checkCode validates a 'code' argument used by return and try.
func checkCode(arg ast.Node) error {
	val, ok := ast.Contents(arg)
	if !ok {
		return nil
	}
	if _, err := strconv.Atoi(val); err == nil {
		return nil
	}
	switch val {
	case "ok", "error", "return", "break", "continue":
		return nil
	}
	return ArgErrorf(
		"got %s, expected one of ok, error, return, break, continue, or an integer", val)
}

func after(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) == 0 {
		return nil, ArgErrorf("not enough args for after: got 0, expected at least 1")
	}
	if len(args) == 1 {
		return nil, nil
	}
	script, err := EvalBody(args[1:], p, "after")
	if err != nil {
		return nil, err
	}
	return append([]ast.Node{args[0]}, script...), nil
}

func afterIdle(args []ast.Node, p Parser) ([]ast.Node, error) {
	return EvalBody(args, p, "after idle")
}

func apply(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 1 {
		return nil, ArgErrorf("not enough args to apply: got %d, expected at least 1", len(args))
	}

	funcList, err := p.ParseList(args[0])
	if err != nil {
		return nil, err
	}
	n := len(funcList.Elems)
	if n < 2 || n > 3 {
		return nil, ArgErrorf(
			"invalid first argument to apply: got list of %d elements, expected 2 or 3", n)
	}

	body, err := p.ParseScript(funcList.Elems[1])
	if err != nil {
		return nil, err
	}
	funcList.Elems[1] = body

	return append([]ast.Node{funcList}, args[1:]...), nil
}

func catch(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 1 {
		return nil, ArgErrorf("not enough args to catch: got %d, expected at least 1", len(args))
	}
	if len(args) > 3 {
		return nil, ArgErrorf("too many args to catch: got %d, expected no more than 3", len(args))
	}
	body, err := p.ParseScript(args[0])
	if err != nil {
		return nil, err
	}
	return append([]ast.Node{body}, args[1:]...), nil
}

func dictFilter(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 2 {
		return nil, ArgErrorf(
			"not enough args to 'dict filter': got %d, expected at least 2", len(args))
	}

	filterType, _ := ast.Contents(args[1])
	switch filterType {
	case "key", "value":
		return nil, nil
	case "script":
	default:
		return nil, ArgErrorf(
			"invalid argument to 'dict filter': expected filter type to be one of" +
				" key, script, or value")
	}

	if len(args) != 4 {
		return nil, ArgErrorf(
			"wrong # of args to 'dict filter script': got %d, expected 4", len(args))
	}
	kvPair, err := p.ParseList(args[2])
	if err != nil {
		return nil, err
	}
	if len(kvPair.Elems) != 2 {
		return nil, ArgErrorf(
			"invalid argument to 'dict filter': expected list of 2 elements in"+
				" second-to-last argument, got %d", len(kvPair.Elems))
	}
	body, err := p.ParseScript(args[3])
	if err != nil {
		return nil, err
	}
	return []ast.Node{args[0], args[1], kvPair, body}, nil
}

func dictMapFor(cmd string) HandlerFunc {
	return func(args []ast.Node, p Parser) ([]ast.Node, error) {
		if len(args) != 3 {
			return nil, ArgErrorf("wrong # of args to '%s': got %d, expected 3", cmd, len(args))
		}
		body, err := p.ParseScript(args[2])
		if err != nil {
			return nil, err
		}
		return []ast.Node{args[0], args[1], body}, nil
	}
}

func dictUpdate(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 4 {
		return nil, ArgErrorf(
			"not enough args to 'dict update': got %d, expected at least 4", len(args))
	}
	if len(args)%2 != 0 {
		return nil, ArgErrorf("invalid # of args to 'dict update': expected an even number")
	}
	body, err := p.ParseScript(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	return append(append([]ast.Node{}, args[:len(args)-1]...), body), nil
}

func dictWith(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 2 {
		return nil, ArgErrorf(
			"not enough args to 'dict with': got %d, expected at least 2", len(args))
	}
	body, err := p.ParseScript(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	return append(append([]ast.Node{}, args[:len(args)-1]...), body), nil
}

func eval(args []ast.Node, p Parser) ([]ast.Node, error) {
	return EvalBody(args, p, "eval")
}

func uplevel(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) == 0 {
		return nil, ArgErrorf("not enough args for uplevel: got 0, expected at least 1")
	}
	// An optional leading level argument: a number or #number.
	body := args
	var prefix []ast.Node
	if len(args) > 1 {
		if lvl, ok := ast.Contents(args[0]); ok && isLevelArg(lvl) {
			prefix = args[:1]
			body = args[1:]
		}
	}
	script, err := EvalBody(body, p, "uplevel")
	if err != nil {
		return nil, err
	}
	return append(append([]ast.Node{}, prefix...), script...), nil
}

func isLevelArg(s string) bool {
	s = strings.TrimPrefix(s, "#")
	if s == "" {
		return false
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func expr(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) == 0 {
		return nil, ArgErrorf("not enough args to 'expr': got 0, expected at least 1")
	}

	if len(args) == 1 {
		if _, ok := ast.Contents(args[0]); ok {
			parsed, err := p.ParseExpression(args[0])
			if err != nil {
				return nil, err
			}
			return []ast.Node{parsed}, nil
		}
	}

	// Multiple args or a substituted argument: leave unparsed, the
	// unbraced-expr check flags it.
	return nil, nil
}

func fileevent(args []ast.Node, p Parser) ([]ast.Node, error) {
	return nil, ArgErrorf(
		"argument parsing for 'fileevent' not implemented, script argument will" +
			" not be checked for violations")
}

func forCmd(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) != 4 {
		return nil, ArgErrorf("wrong # of args to for: got %d, expected 4", len(args))
	}
	start, err := p.ParseScript(args[0])
	if err != nil {
		return nil, err
	}
	cond, err := p.ParseExpression(args[1])
	if err != nil {
		return nil, err
	}
	next, err := p.ParseScript(args[2])
	if err != nil {
		return nil, err
	}
	body, err := p.ParseScript(args[3])
	if err != nil {
		return nil, err
	}
	return []ast.Node{start, cond, next, body}, nil
}

func foreach(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 3 {
		return nil, ArgErrorf(
			"insufficient args to foreach: got %d, expected at least 3", len(args))
	}
	body, err := p.ParseScript(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	return append(append([]ast.Node{}, args[:len(args)-1]...), body), nil
}

func ifCmd(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 2 {
		return nil, ArgErrorf("wrong # of args to if: got %d, expected at least 2", len(args))
	}

	newArgs := make([]ast.Node, 0, len(args))

	cond, err := p.ParseExpression(args[0])
	if err != nil {
		return nil, err
	}
	newArgs = append(newArgs, cond)

	for len(newArgs) < len(args) {
		arg := args[len(newArgs)]
		contents, _ := ast.Contents(arg)

		switch contents {
		case "then", "else":
			newArgs = append(newArgs, arg)
			continue
		case "elseif":
			newArgs = append(newArgs, arg)
			if len(newArgs) >= len(args) {
				return nil, ArgErrorf("wrong # of args to if: missing condition after elseif")
			}
			cond, err := p.ParseExpression(args[len(newArgs)])
			if err != nil {
				return nil, err
			}
			newArgs = append(newArgs, cond)
			continue
		}

		body, err := p.ParseScript(arg)
		if err != nil {
			return nil, err
		}
		newArgs = append(newArgs, body)
	}

	return newArgs, nil
}

func interpEval(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 2 {
		return nil, ArgErrorf(
			"not enough args to 'interp eval': got %d, expected at least 2", len(args))
	}
	script, err := EvalBody(args[1:], p, "interp eval")
	if err != nil {
		return nil, err
	}
	return append([]ast.Node{args[0]}, script...), nil
}

func lmap(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 3 {
		return nil, ArgErrorf("not enough args to lmap: got %d, expected at least 3", len(args))
	}
	body, err := p.ParseScript(args[len(args)-1])
	if err != nil {
		return nil, err
	}
	return append(append([]ast.Node{}, args[:len(args)-1]...), body), nil
}

func namespaceCode(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) != 1 {
		return nil, ArgErrorf("wrong # of args to 'namespace code': got %d, expected 1", len(args))
	}
	body, err := p.ParseScript(args[0])
	if err != nil {
		return nil, err
	}
	return []ast.Node{body}, nil
}

func namespaceEval(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 2 {
		return nil, ArgErrorf(
			"not enough args to 'namespace eval': got %d, expected at least 2", len(args))
	}
	script, err := EvalBody(args[1:], p, "namespace eval")
	if err != nil {
		return nil, err
	}
	return append([]ast.Node{args[0]}, script...), nil
}

func namespaceInscope(args []ast.Node, p Parser) ([]ast.Node, error) {
	return nil, ArgErrorf(
		"'namespace inscope' is not meant to be called directly, consider using" +
			" 'namespace code' or 'namespace eval' instead")
}

func packageIfneeded(args []ast.Node, p Parser) ([]ast.Node, error) {
	return nil, ArgErrorf(
		"argument parsing for 'package ifneeded' not implemented, any script" +
			" argument will not be checked for violations")
}

func proc(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) != 3 {
		return nil, ArgErrorf("wrong # of args to proc: got %d, expected 3", len(args))
	}
	body, err := p.ParseScript(args[2])
	if err != nil {
		return nil, err
	}
	return []ast.Node{args[0], args[1], body}, nil
}

func returnCmd(args []ast.Node, p Parser) ([]ast.Node, error) {
	i := 0
	for i < len(args) {
		option, _ := ast.Contents(args[i])
		i++

		switch option {
		case "-code":
			if i >= len(args) {
				return nil, ArgErrorf("insufficient args to return: expected value after %s", option)
			}
			if err := checkCode(args[i]); err != nil {
				return nil, ArgErrorf("invalid value for return -code: %s", err)
			}
			i++
		case "-level":
			if i >= len(args) {
				return nil, ArgErrorf("insufficient args to return: expected value after %s", option)
			}
			val, ok := ast.Contents(args[i])
			i++
			if !ok {
				continue
			}
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				continue
			}
			return nil, ArgErrorf(
				"invalid value for return -level: got %s, expected a non-negative integer", val)
		case "-errorcode", "-errorinfo", "-errorstack", "-options":
			if i >= len(args) {
				return nil, ArgErrorf("insufficient args to return: expected value after %s", option)
			}
			i++
		default:
			// First non-option word is the result value.
			if len(args)-i+1 > 1 {
				return nil, ArgErrorf(
					"too many arguments to return: expected no more than 1 argument" +
						" after explicit options. Provide -options argument if you" +
						" intend to specify additional return options.")
			}
			return nil, nil
		}
	}
	return nil, nil
}

func switchCmd(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 2 {
		return nil, ArgErrorf("wrong # of args to switch: got %d, expected at least 2", len(args))
	}

	// Scan leading options; "--" explicitly ends them.
	argI := 0
	foundSep := false
	for i, arg := range args {
		if contents, ok := ast.Contents(arg); ok && contents == "--" {
			argI = i + 1
			foundSep = true
			break
		}
	}
	if !foundSep {
	scan:
		for argI < len(args) {
			contents, _ := ast.Contents(args[argI])
			switch contents {
			case "-exact", "-glob", "-regexp", "-nocase":
				argI++
			case "-matchvar", "-indexvar":
				argI += 2
			default:
				break scan
			}
		}
	}

	// Account for the string to be matched.
	argI++
	if argI > len(args) {
		return nil, ArgErrorf("wrong # of args to switch: missing string to match")
	}

	newArgs := append([]ast.Node{}, args[:argI]...)

	// One argument left: the form with patterns and bodies in a list.
	lastArgIsList := argI == len(args)-1

	var patternsAndBodies []ast.Node
	var bodyList *ast.List
	if lastArgIsList {
		list, err := p.ParseList(args[argI])
		if err != nil {
			return nil, err
		}
		bodyList = list
		newArgs = append(newArgs, list)
		patternsAndBodies = list.Elems
	} else {
		patternsAndBodies = args[argI:]
	}

	if len(patternsAndBodies)%2 != 0 {
		return nil, ArgErrorf("expected even number of patterns and commands")
	}

	parsed := make([]ast.Node, 0, len(patternsAndBodies))
	for i, node := range patternsAndBodies {
		if i%2 == 0 {
			parsed = append(parsed, node)
			continue
		}
		// A body of "-" falls through to the next pattern's body.
		if contents, ok := ast.Contents(node); ok && contents == "-" {
			parsed = append(parsed, node)
			continue
		}
		body, err := p.ParseScript(node)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, body)
	}

	if lastArgIsList {
		bodyList.Elems = parsed
	} else {
		newArgs = append(newArgs, parsed...)
	}

	return newArgs, nil
}

func timeCmd(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) < 1 {
		return nil, ArgErrorf("not enough args to time: got %d, expected at least 1", len(args))
	}
	if len(args) > 2 {
		return nil, ArgErrorf("too many args to time: got %d, expected no more than 2", len(args))
	}
	if len(args) == 2 {
		if val, ok := ast.Contents(args[1]); ok {
			if _, err := strconv.Atoi(val); err != nil {
				return nil, ArgErrorf("invalid argument to time: expected integer for last argument")
			}
		}
	}
	body, err := p.ParseScript(args[0])
	if err != nil {
		return nil, err
	}
	return append([]ast.Node{body}, args[1:]...), nil
}

func timerate(args []ast.Node, p Parser) ([]ast.Node, error) {
	newArgs := []ast.Node{}
	i := 0
	var bodyArg ast.Node
	for {
		if i >= len(args) {
			return nil, ArgErrorf("invalid arguments to timerate: expected script body")
		}
		arg := args[i]
		i++
		contents, _ := ast.Contents(arg)
		switch contents {
		case "-direct", "-calibrate":
			newArgs = append(newArgs, arg)
		case "-overhead":
			newArgs = append(newArgs, arg)
			if i >= len(args) {
				return nil, ArgErrorf(
					"invalid argument to timerate: -overhead must be followed by a double")
			}
			val := args[i]
			i++
			if v, ok := ast.Contents(val); ok {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return nil, ArgErrorf(
						"invalid argument to timerate: -overhead must be followed by a double")
				}
			}
			newArgs = append(newArgs, val)
		default:
			bodyArg = arg
		}
		if bodyArg != nil {
			break
		}
	}

	body, err := p.ParseScript(bodyArg)
	if err != nil {
		return nil, err
	}
	newArgs = append(newArgs, body)

	rest := args[i:]
	if len(rest) > 2 {
		return nil, ArgErrorf(
			"too many arguments to timerate: expected no more than 2 arguments" +
				" following script body")
	}
	for _, arg := range rest {
		if v, ok := ast.Contents(arg); ok {
			if _, err := strconv.Atoi(v); err != nil {
				return nil, ArgErrorf(
					"invalid argument to timerate: expected one or two integers" +
						" following script body")
			}
		}
	}

	return append(newArgs, rest...), nil
}

func try(args []ast.Node, p Parser) ([]ast.Node, error) {
	newArgs := []ast.Node{}
	i := 0
	for {
		if i >= len(args) {
			return nil, ArgErrorf("invalid arguments to try: missing script body")
		}
		body, err := p.ParseScript(args[i])
		if err != nil {
			return nil, err
		}
		newArgs = append(newArgs, body)
		i++

		if i >= len(args) {
			break
		}
		handler := args[i]
		newArgs = append(newArgs, handler)
		i++

		contents, _ := ast.Contents(handler)
		switch contents {
		case "on":
			if i+1 >= len(args) {
				return nil, ArgErrorf(
					"invalid arguments to try: expected 3 arguments after 'on' handler")
			}
			if err := checkCode(args[i]); err != nil {
				return nil, ArgErrorf("invalid code argument to 'on' handler in try: %s", err)
			}
			newArgs = append(newArgs, args[i], args[i+1])
			i += 2
		case "trap":
			if i+1 >= len(args) {
				return nil, ArgErrorf(
					"invalid arguments to try: expected 3 arguments after 'trap' handler")
			}
			newArgs = append(newArgs, args[i], args[i+1])
			i += 2
		case "finally":
			continue
		default:
			return nil, ArgErrorf(
				"invalid handler argument to try: expected one of 'on', 'trap', or 'finally'")
		}
	}
	return newArgs, nil
}

func whileCmd(args []ast.Node, p Parser) ([]ast.Node, error) {
	if len(args) != 2 {
		return nil, ArgErrorf("wrong # of args to while: got %d, expected 2", len(args))
	}
	cond, err := p.ParseExpression(args[0])
	if err != nil {
		return nil, err
	}
	body, err := p.ParseScript(args[1])
	if err != nil {
		return nil, err
	}
	return []ast.Node{cond, body}, nil
}
