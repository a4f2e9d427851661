package notifications

import (
	"strconv"
	"strings"
)

// EscapeMode selects how interpolated values are escaped.
type EscapeMode int

const (
	EscapeNone EscapeMode = iota
	EscapeHTML
	EscapeJSON
)

type variable int

const (
	varCommand variable = iota
	varExitCode
	varStdout
	varStderr
	varTimestamp
	varHostname
	varUser
)

var variables = map[string]variable{
	"COMMAND":   varCommand,
	"EXIT_CODE": varExitCode,
	"STDOUT":    varStdout,
	"STDERR":    varStderr,
	"TIMESTAMP": varTimestamp,
	"HOSTNAME":  varHostname,
	"USER":      varUser,
}

type segment struct {
	literal string
	isVar   bool
	v       variable
}

// Template is a compiled ${NAME} template.
type Template struct {
	segments []segment
}

// Compile scans src into literal text and known placeholders.
// Unknown or unterminated placeholders are kept as literal text.
func Compile(src string) *Template {
	t := &Template{}
	var lit strings.Builder
	for i := 0; i < len(src); {
		if src[i] == '$' && i+1 < len(src) && src[i+1] == '{' {
			end := strings.IndexByte(src[i+2:], '}')
			if end >= 0 {
				name := src[i+2 : i+2+end]
				if v, ok := variables[name]; ok {
					if lit.Len() > 0 {
						t.segments = append(t.segments, segment{literal: lit.String()})
						lit.Reset()
					}
					t.segments = append(t.segments, segment{isVar: true, v: v})
					i += end + 3
					continue
				}
			}
		}
		lit.WriteByte(src[i])
		i++
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{literal: lit.String()})
	}
	return t
}

// Execute substitutes the command result into the template.
func (t *Template) Execute(result CommandResult, mode EscapeMode) string {
	var b strings.Builder
	for _, s := range t.segments {
		if !s.isVar {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(value(result, s.v, mode))
	}
	return b.String()
}

// Render compiles and executes tmpl in one go.
func Render(tmpl string, result CommandResult, mode EscapeMode) string {
	return Compile(tmpl).Execute(result, mode)
}

func value(result CommandResult, v variable, mode EscapeMode) string {
	var raw string
	switch v {
	case varExitCode:
		return strconv.Itoa(result.ExitCode)
	case varCommand:
		raw = result.Command
	case varStdout:
		raw = result.Stdout
	case varStderr:
		raw = result.Stderr
	case varTimestamp:
		raw = result.Timestamp
	case varHostname:
		raw = result.Hostname
	case varUser:
		raw = result.User
	}

	switch mode {
	case EscapeHTML:
		return HTMLEscape(raw)
	case EscapeJSON:
		return JSONEscape(raw)
	}
	return raw
}
