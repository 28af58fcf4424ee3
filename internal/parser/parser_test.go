package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		line       string
		wantArgv   []string
		background bool
	}{
		{"empty", "", nil, false},
		{"blank", "   \t ", nil, false},
		{"single word", "jobs", []string{"jobs"}, false},
		{"args", "/bin/echo hi there", []string{"/bin/echo", "hi", "there"}, false},
		{"leading and trailing spaces", "  ls   -l  ", []string{"ls", "-l"}, false},
		{"background", "/bin/sleep 5 &", []string{"/bin/sleep", "5"}, true},
		{"background glued token", "/bin/sleep 5 &x", []string{"/bin/sleep", "5"}, true},
		{"ampersand only", "&", []string{}, true},
		{"single quotes", "/bin/echo 'hello world'", []string{"/bin/echo", "hello world"}, false},
		{"unterminated quote", "/bin/echo 'oops", []string{"/bin/echo", "oops"}, false},
		{"quoted background", "'my prog' arg &", []string{"my prog", "arg"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			argv, bg := Parse(tt.line)
			assert.Equal(t, tt.wantArgv, argv)
			assert.Equal(t, tt.background, bg)
		})
	}
}
