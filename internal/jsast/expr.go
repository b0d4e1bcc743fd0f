package jsast

// ExprKind enumerates target expression kinds.
type ExprKind uint8

const (
	// ExprString is a string literal.
	ExprString ExprKind = iota
	// ExprNumber is a number literal.
	ExprNumber
	ExprBool
	// ExprIdent is a reference to a binding or global.
	ExprIdent
	// ExprMember is obj.prop.
	ExprMember
	// ExprCall is callee(args...).
	ExprCall
	// ExprNew is new Callee(args...).
	ExprNew
	// ExprBinary is left op right.
	ExprBinary
	// ExprConditional is test ? consequent : alternate.
	ExprConditional
	// ExprObject is an object literal.
	ExprObject
	// ExprFragment is a JSX fragment <>…</>.
	ExprFragment
)

// String returns a human-readable name for the expression kind.
func (k ExprKind) String() string {
	switch k {
	case ExprString:
		return "String"
	case ExprNumber:
		return "Number"
	case ExprBool:
		return "Bool"
	case ExprIdent:
		return "Ident"
	case ExprMember:
		return "Member"
	case ExprCall:
		return "Call"
	case ExprNew:
		return "New"
	case ExprBinary:
		return "Binary"
	case ExprConditional:
		return "Conditional"
	case ExprObject:
		return "Object"
	case ExprFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Expr is a node of the generated expression tree.
type Expr struct {
	Kind ExprKind
	Data ExprData
}

// ExprData is the interface for expression-specific data.
type ExprData interface {
	exprData()
}

// StringData holds data for ExprString.
type StringData struct {
	Value string
}

func (StringData) exprData() {}

// NumberData holds data for ExprNumber.
type NumberData struct {
	Value float64
}

func (NumberData) exprData() {}

// BoolData holds data for ExprBool.
type BoolData struct {
	Value bool
}

func (BoolData) exprData() {}

// IdentData holds data for ExprIdent.
type IdentData struct {
	Name string
}

func (IdentData) exprData() {}

// MemberData holds data for ExprMember.
type MemberData struct {
	Object   *Expr
	Property string
}

func (MemberData) exprData() {}

// CallData holds data for ExprCall and ExprNew.
type CallData struct {
	Callee *Expr
	Args   []*Expr
}

func (CallData) exprData() {}

// BinaryOp enumerates the binary operators the compiler emits.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpStrictEq
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpStrictEq:
		return "==="
	default:
		return "?"
	}
}

// BinaryData holds data for ExprBinary.
type BinaryData struct {
	Op    BinaryOp
	Left  *Expr
	Right *Expr
}

func (BinaryData) exprData() {}

// ConditionalData holds data for ExprConditional.
type ConditionalData struct {
	Test       *Expr
	Consequent *Expr
	Alternate  *Expr
}

func (ConditionalData) exprData() {}

// Property is one key: value entry of an object literal.
type Property struct {
	Key   string
	Value *Expr
}

// ObjectData holds data for ExprObject.
type ObjectData struct {
	Props []Property
}

func (ObjectData) exprData() {}

// JSXChildKind tells text children from expression containers.
type JSXChildKind uint8

const (
	JSXText JSXChildKind = iota
	JSXExprContainer
)

// JSXChild is one child of a fragment.
type JSXChild struct {
	Kind JSXChildKind
	Text string
	Expr *Expr
}

// FragmentData holds data for ExprFragment.
type FragmentData struct {
	Children []JSXChild
}

func (FragmentData) exprData() {}
