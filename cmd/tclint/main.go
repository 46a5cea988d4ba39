// Copyright © 2026 The tclint authors

// Command tclint lints and formats Tcl-family sources (Tcl, SDC, XDC,
// UPF) and serves them over the Language Server Protocol.
package main

func main() {
	Execute()
}
