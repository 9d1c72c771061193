// Package flagx lets independent flag sets read their own flags out of
// one shared argument list.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// flagName returns the name of a "-name", "--name" or "-name=value"
// token and whether the token carries its value inline.
func flagName(arg string) (string, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return "", false
	}
	name := strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
	name, _, inline := strings.Cut(name, "=")
	return name, inline
}

// Filter returns the tokens of args that belong to the named flags, in
// order. Names are given without dashes and match both "-x" and "--x".
// A flag consumes the following token as its value unless that token
// starts with a dash. The result is never nil.
func Filter(args []string, names ...string) []string {
	out := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		name, inline := flagName(args[i])
		if name == "" || !contains(names, name) {
			continue
		}
		out = append(out, args[i])
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// ConfigFile returns the path given with -c or -config in args, the last
// one winning, or "".
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file (JSON or YAML)")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(Filter(args, "c", "config"))

	return path
}
