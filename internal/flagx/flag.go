// Package flagx holds the small helpers both binaries use to layer
// command-line flags over their other configuration sources.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// flagName strips the leading dashes and any "=value" part, so "-c",
// "--c" and "--c=x" all name the same flag, as the flag package treats them.
func flagName(arg string) string {
	name := strings.TrimLeft(arg, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name
}

func isFlag(arg string) bool {
	return len(arg) > 1 && arg[0] == '-'
}

// FilterArgs keeps only the allowed flags from args, together with their
// values. A value is either inline ("-config=app.json") or the next argument
// when that argument is not itself a flag. Filtering stops at "--".
//
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[flagName(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !isFlag(arg) {
			continue
		}
		if _, ok := allowed[flagName(arg)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		if i+1 < len(args) && !isFlag(args[i+1]) {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigPath returns the JSON config path given via -c or -config in args,
// or "" when neither is present. When both appear the last one wins.
func ConfigPath(args []string) string {
	var path string

	fs, filtered := NewFlagSet("config", args, []string{"c", "config"})
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (shorthand)")
	_ = fs.Parse(filtered)

	return path
}

// NewFlagSet returns a FlagSet that discards its usage output, plus the
// subset of args it should Parse.
func NewFlagSet(name string, args []string, allowedFlags []string) (*flag.FlagSet, []string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs, FilterArgs(args, allowedFlags)
}
