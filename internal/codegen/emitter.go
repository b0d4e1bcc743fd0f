package codegen

import "strings"

const indentWith = "  "

// line is one output line under construction.
type line struct {
	parts  []string
	indent int
}

// emitter accumulates output lines with indentation tracking.
type emitter struct {
	lines  []*line
	indent int
}

func newEmitter() *emitter {
	return &emitter{lines: []*line{{}}}
}

func (e *emitter) current() *line {
	return e.lines[len(e.lines)-1]
}

// print appends part to the current line.
func (e *emitter) print(part string) {
	if part == "" {
		return
	}
	l := e.current()
	l.parts = append(l.parts, part)
}

// println appends part and starts a new line.
func (e *emitter) println(part string) {
	e.print(part)
	e.lines = append(e.lines, &line{indent: e.indent})
}

func (e *emitter) lineIsEmpty() bool {
	return len(e.current().parts) == 0
}

func (e *emitter) incIndent() {
	e.indent++
	if e.lineIsEmpty() {
		e.current().indent = e.indent
	}
}

func (e *emitter) decIndent() {
	e.indent--
	if e.lineIsEmpty() {
		e.current().indent = e.indent
	}
}

// source joins all lines; the trailing empty line becomes the final newline.
func (e *emitter) source() string {
	var b strings.Builder
	for i, l := range e.lines {
		if i == len(e.lines)-1 && len(l.parts) == 0 {
			break
		}
		if len(l.parts) > 0 {
			b.WriteString(strings.Repeat(indentWith, l.indent))
			for _, p := range l.parts {
				b.WriteString(p)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
