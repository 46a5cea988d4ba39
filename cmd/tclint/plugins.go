// Copyright © 2026 The tclint authors

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/luthersystems/tclint/commands"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Work with command-spec plugins",
	Long: `Work with static command-spec plugins.

A plugin is a JSON file describing the argument grammars of additional
commands (an EDA tool's command set, a site library, ...):

  {
    "name": "mytool",
    "commands": {
      "my_cmd": {
        "switches": {"-verbose": {"required": false, "repeated": false, "value": null}},
        "positionals": [{"name": "design", "required": true, "value": {"type": "any"}}]
      },
      "other_cmd": null
    }
  }

Plugins contain data only; they can never execute code. Point the
'commands' config key at the file to load it for lint and fmt runs.`,
}

var pluginsValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a plugin spec file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		plugin, err := commands.LoadPlugin(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitInputError)
		}

		names := make([]string, 0, len(plugin.Commands))
		for name := range plugin.Commands {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Printf("%s: ok (%d commands)\n", plugin.Name, len(names))
		for _, name := range names {
			fmt.Println("  " + name)
		}
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
	pluginsCmd.AddCommand(pluginsValidateCmd)
}
