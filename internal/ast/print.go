package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"icuc/internal/skeleton"
)

// Fprint writes an indented tree of nodes, one element per line.
func Fprint(w io.Writer, nodes []*Node) error {
	p := &printer{w: w}
	p.list(nodes, "")
	return p.err
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) list(nodes []*Node, prefix string) {
	for i, n := range nodes {
		last := i == len(nodes)-1
		branch, next := "├─ ", "│  "
		if last {
			branch, next = "└─ ", "   "
		}
		p.printf("%s%s%s\n", prefix, branch, label(n))
		p.children(n, prefix+next)
	}
}

func (p *printer) children(n *Node, prefix string) {
	switch d := n.Data.(type) {
	case SelectData:
		p.cases(d.Cases, prefix)
	case PluralData:
		p.cases(d.Cases, prefix)
	case TagData:
		p.list(d.Children, prefix)
	}
}

func (p *printer) cases(cases []Case, prefix string) {
	for i, c := range cases {
		branch, next := "├─ ", "│  "
		if i == len(cases)-1 {
			branch, next = "└─ ", "   "
		}
		p.printf("%s%s%s\n", prefix, branch, c.Key)
		p.list(c.Body, prefix+next)
	}
}

func label(n *Node) string {
	switch d := n.Data.(type) {
	case LiteralData:
		return "Literal " + strconv.Quote(d.Text)
	case ArgumentData:
		return "Argument " + d.Name
	case SelectData:
		return "Select " + d.Name
	case PluralData:
		s := fmt.Sprintf("Plural %s (%s", d.Name, d.PluralType)
		if d.Offset != 0 {
			s += ", offset " + skeleton.FormatNumber(d.Offset)
		}
		return s + ")"
	case FormatData:
		s := n.Kind.String() + " " + d.Name
		switch d.Style.Kind {
		case StyleNamed:
			s += " " + d.Style.Name
		case StyleSkeleton:
			s += " ::" + strings.TrimSpace(d.Style.Name)
		}
		return s
	case TagData:
		if d.SelfClosing {
			return "Tag <" + d.Name + "/>"
		}
		return "Tag <" + d.Name + ">"
	}
	return n.Kind.String()
}
