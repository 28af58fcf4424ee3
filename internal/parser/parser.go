// Package parser turns a raw command line into an argument vector.
//
// The grammar is deliberately small: whitespace-separated words, with
// single-quoted spans treated as one argument, and a trailing "&" token
// requesting background execution. No redirection, pipelines, or variable
// expansion.
package parser

import "strings"

// Parse splits line into an argument vector and reports whether the command
// was requested to run in the background. An empty or blank line yields a nil
// vector.
func Parse(line string) (argv []string, background bool) {
	rest := strings.TrimSpace(line)
	for rest != "" {
		var tok string
		tok, rest = nextToken(rest)
		argv = append(argv, tok)
	}

	if len(argv) == 0 {
		return nil, false
	}

	if strings.HasPrefix(argv[len(argv)-1], "&") {
		argv = argv[:len(argv)-1]
		background = true
	}
	return argv, background
}

// nextToken consumes one argument from the front of s. s must not start with
// whitespace. An unterminated quote runs to the end of the line.
func nextToken(s string) (tok, rest string) {
	if s[0] == '\'' {
		s = s[1:]
		if i := strings.IndexByte(s, '\''); i >= 0 {
			return s[:i], strings.TrimLeft(s[i+1:], " \t")
		}
		return s, ""
	}

	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimLeft(s[i+1:], " \t")
	}
	return s, ""
}
