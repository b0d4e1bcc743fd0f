package jsast

func String(s string) *Expr {
	return &Expr{Kind: ExprString, Data: StringData{Value: s}}
}

func Number(v float64) *Expr {
	return &Expr{Kind: ExprNumber, Data: NumberData{Value: v}}
}

func Bool(v bool) *Expr {
	return &Expr{Kind: ExprBool, Data: BoolData{Value: v}}
}

func Ident(name string) *Expr {
	return &Expr{Kind: ExprIdent, Data: IdentData{Name: name}}
}

// Undefined is the global undefined.
func Undefined() *Expr {
	return Ident("undefined")
}

func Member(object *Expr, property string) *Expr {
	return &Expr{Kind: ExprMember, Data: MemberData{Object: object, Property: property}}
}

func Call(callee *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Data: CallData{Callee: callee, Args: args}}
}

func New(callee *Expr, args ...*Expr) *Expr {
	return &Expr{Kind: ExprNew, Data: CallData{Callee: callee, Args: args}}
}

func Binary(op BinaryOp, left, right *Expr) *Expr {
	return &Expr{Kind: ExprBinary, Data: BinaryData{Op: op, Left: left, Right: right}}
}

func Conditional(test, consequent, alternate *Expr) *Expr {
	return &Expr{Kind: ExprConditional, Data: ConditionalData{Test: test, Consequent: consequent, Alternate: alternate}}
}

func Object(props ...Property) *Expr {
	return &Expr{Kind: ExprObject, Data: ObjectData{Props: props}}
}

func Fragment(children ...JSXChild) *Expr {
	return &Expr{Kind: ExprFragment, Data: FragmentData{Children: children}}
}

func Text(s string) JSXChild {
	return JSXChild{Kind: JSXText, Text: s}
}

func Container(e *Expr) JSXChild {
	return JSXChild{Kind: JSXExprContainer, Expr: e}
}

// IsString reports whether e is a string literal.
func (e *Expr) IsString() bool {
	return e != nil && e.Kind == ExprString
}
