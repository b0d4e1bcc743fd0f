package compiler

import "fmt"

// ArgType is the inferred semantic type of a message argument.
type ArgType uint8

const (
	// TypeText is a plain interpolation in string mode.
	TypeText ArgType = iota
	// TypeMarkupNode is a plain interpolation in tree mode.
	TypeMarkupNode
	// TypeString is a select discriminant.
	TypeString
	// TypeNumber is a plural discriminant or a number format argument.
	TypeNumber
	// TypeDate is a date or time format argument.
	TypeDate
	// TypeMarkupElement is a tag in tree mode.
	TypeMarkupElement
	// TypeTagFunction is a tag in string mode.
	TypeTagFunction
)

var argTypeNames = [...]string{
	TypeText:          "text",
	TypeMarkupNode:    "markup-node",
	TypeString:        "string",
	TypeNumber:        "number",
	TypeDate:          "date",
	TypeMarkupElement: "markup-element",
	TypeTagFunction:   "markup-tag-function",
}

func (t ArgType) String() string {
	if int(t) < len(argTypeNames) {
		return argTypeNames[t]
	}
	return fmt.Sprintf("ArgType(%d)", t)
}

// MarshalText lets argument maps serialize with readable type names.
func (t ArgType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (t *ArgType) UnmarshalText(b []byte) error {
	for i, name := range argTypeNames {
		if name == string(b) {
			*t = ArgType(i)
			return nil
		}
	}
	return fmt.Errorf("unknown argument type %q", b)
}

// TSType returns the TypeScript annotation for the argument.
func (t ArgType) TSType() string {
	switch t {
	case TypeText:
		return "string | number"
	case TypeMarkupNode:
		return "React.ReactNode"
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeDate:
		return "Date | number"
	case TypeMarkupElement:
		return "React.ReactElement"
	case TypeTagFunction:
		return "(children: string) => string"
	default:
		return "unknown"
	}
}

func (t ArgType) interpolation() bool {
	return t == TypeText || t == TypeMarkupNode
}

func (t ArgType) scalar() bool {
	return t == TypeString || t == TypeNumber || t == TypeDate
}

// mergeTypes joins two uses of one argument. A plain interpolation accepts any
// scalar, so the more specific scalar wins; every other mismatch conflicts.
func mergeTypes(a, b ArgType) (ArgType, bool) {
	switch {
	case a == b:
		return a, true
	case a.interpolation() && b.scalar():
		return b, true
	case b.interpolation() && a.scalar():
		return a, true
	case a.interpolation() && b.interpolation():
		return TypeMarkupNode, true
	default:
		return a, false
	}
}

// Argument describes one parameter of a compiled message.
type Argument struct {
	Name  string  `json:"name"`
	Local string  `json:"local,omitempty"`
	Type  ArgType `json:"type"`
}
