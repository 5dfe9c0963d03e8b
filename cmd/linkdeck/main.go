package main

import (
	"os"
	"strings"

	"github.com/spf13/pflag"

	"linkdeck-cli/internal/cli"
)

// shorthandArgs lets `linkdeck item-abc12345` stand in for
// `linkdeck items show item-abc12345`. The first bare argument decides:
// anything carrying the minted id prefix gets the subcommand spliced in
// ahead of it, everything else is left for cobra to resolve.
func shorthandArgs(args []string, flags *pflag.FlagSet) []string {
	i := firstBareArg(args, flags)
	if i < 0 || !strings.HasPrefix(args[i], "item-") || args[i] == "item-" {
		return args
	}
	if i > 0 && args[i-1] == "--" {
		// The subcommand must come before the terminator to resolve.
		i--
	}
	out := make([]string, 0, len(args)+2)
	out = append(out, args[:i]...)
	out = append(out, "items", "show")
	return append(out, args[i:]...)
}

// firstBareArg returns the index of the first argument that is neither a
// flag nor a flag's value, or -1. Flag awareness comes from the command's
// own persistent flag set so the two can never drift apart; flags we do
// not know keep their next argument, which at worst skips the shorthand.
func firstBareArg(args []string, flags *pflag.FlagSet) int {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			if i+1 < len(args) {
				return i + 1
			}
			return -1
		case !strings.HasPrefix(arg, "-"):
			return i
		case strings.Contains(arg, "="):
			continue
		}
		if f := flags.Lookup(strings.TrimLeft(arg, "-")); f != nil && f.Value.Type() != "bool" {
			i++ // the next argument is this flag's value
		}
	}
	return -1
}

func main() {
	cmd := cli.NewRootCmd()
	cmd.SetArgs(shorthandArgs(os.Args[1:], cmd.PersistentFlags()))
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
