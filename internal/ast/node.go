package ast

import (
	"strconv"
	"strings"

	"icuc/internal/skeleton"
	"icuc/internal/source"
)

// NodeKind enumerates ICU message elements.
type NodeKind uint8

const (
	// NodeLiteral is plain text with quoting already resolved.
	NodeLiteral NodeKind = iota
	// NodeArgument is a simple placeholder: {name}.
	NodeArgument
	// NodeSelect is {name, select, key {...} other {...}}.
	NodeSelect
	// NodePlural is {name, plural|selectordinal, offset:n =0 {...} one {...} other {...}}.
	NodePlural
	NodeNumber
	NodeDate
	NodeTime
	// NodePound is '#' inside a plural branch.
	NodePound
	// NodeTag is <name>children</name> or <name/>.
	NodeTag
)

// String returns a human-readable name for the node kind.
func (k NodeKind) String() string {
	switch k {
	case NodeLiteral:
		return "Literal"
	case NodeArgument:
		return "Argument"
	case NodeSelect:
		return "Select"
	case NodePlural:
		return "Plural"
	case NodeNumber:
		return "Number"
	case NodeDate:
		return "Date"
	case NodeTime:
		return "Time"
	case NodePound:
		return "Pound"
	case NodeTag:
		return "Tag"
	default:
		return "Unknown"
	}
}

// Node is one element of a parsed message.
type Node struct {
	Kind NodeKind
	Span source.Span
	Data NodeData // nil for NodePound
}

// NodeData is the interface for kind-specific payloads.
type NodeData interface {
	nodeData()
}

// LiteralData holds data for NodeLiteral.
type LiteralData struct {
	Text string
}

func (LiteralData) nodeData() {}

// ArgumentData holds data for NodeArgument.
type ArgumentData struct {
	Name     string
	NameSpan source.Span
}

func (ArgumentData) nodeData() {}

// Case is one branch of a select or plural.
type Case struct {
	Key     string // "male", "one", "=0", "other"
	KeySpan source.Span
	Body    []*Node
	Span    source.Span
}

// IsExact reports whether the case is an exact-value selector such as "=0".
func (c Case) IsExact() bool {
	return strings.HasPrefix(c.Key, "=")
}

// ExactValue returns the number of an exact-value selector.
func (c Case) ExactValue() (float64, bool) {
	if !c.IsExact() {
		return 0, false
	}
	v, err := strconv.ParseFloat(c.Key[1:], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// OtherCase is the mandatory default selector.
const OtherCase = "other"

// SelectData holds data for NodeSelect.
type SelectData struct {
	Name     string
	NameSpan source.Span
	Cases    []Case
}

func (SelectData) nodeData() {}

// PluralType distinguishes cardinal and ordinal plural rules.
type PluralType uint8

const (
	PluralCardinal PluralType = iota
	PluralOrdinal
)

func (t PluralType) String() string {
	if t == PluralOrdinal {
		return "ordinal"
	}
	return "cardinal"
}

// PluralData holds data for NodePlural.
type PluralData struct {
	Name       string
	NameSpan   source.Span
	Offset     float64
	PluralType PluralType
	Cases      []Case
}

func (PluralData) nodeData() {}

// StyleKind tells how a format argument chose its options.
type StyleKind uint8

const (
	// StyleDefault means no style was given: {n, number}.
	StyleDefault StyleKind = iota
	// StyleNamed is a preset resolved through the format table: {n, number, percent}.
	StyleNamed
	// StyleSkeleton is an inline skeleton: {n, number, ::percent .0}.
	StyleSkeleton
)

// Style is the third part of a number/date/time argument.
type Style struct {
	Kind    StyleKind
	Name    string           // preset name for StyleNamed, raw text for StyleSkeleton
	Options skeleton.Options // converted skeleton for StyleSkeleton
	Span    source.Span
}

// FormatData holds data for NodeNumber, NodeDate and NodeTime.
type FormatData struct {
	Name     string
	NameSpan source.Span
	Style    Style
}

func (FormatData) nodeData() {}

// TagData holds data for NodeTag.
type TagData struct {
	Name        string
	NameSpan    source.Span
	Children    []*Node
	SelfClosing bool
}

func (TagData) nodeData() {}

// Helpers for building trees by hand.

func Literal(text string, span source.Span) *Node {
	return &Node{Kind: NodeLiteral, Span: span, Data: LiteralData{Text: text}}
}

func Argument(name string, span source.Span) *Node {
	return &Node{Kind: NodeArgument, Span: span, Data: ArgumentData{Name: name, NameSpan: span}}
}

func Pound(span source.Span) *Node {
	return &Node{Kind: NodePound, Span: span}
}
