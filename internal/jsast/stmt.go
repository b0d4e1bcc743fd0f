package jsast

// Stmt is a top-level or function-body statement.
type Stmt interface {
	stmt()
}

// ImportNamespace is `import * as Local from "Source"`.
type ImportNamespace struct {
	Local  string
	Source string
}

func (*ImportNamespace) stmt() {}

// VarDecl is `const Name = Init`.
type VarDecl struct {
	Name string
	Init *Expr
}

func (*VarDecl) stmt() {}

// Param is one property of the destructured argument object.
// Local differs from Name when the argument was renamed.
type Param struct {
	Name  string
	Local string
	Type  string // TypeScript type annotation
}

// FunctionDecl is `function Name({ params }) { body }`. A function without
// params takes no arguments at all.
type FunctionDecl struct {
	Name   string
	Params []Param
	Body   []Stmt
	// ReturnType is the TypeScript return annotation.
	ReturnType string
}

func (*FunctionDecl) stmt() {}

// Return is `return Value`.
type Return struct {
	Value *Expr
}

func (*Return) stmt() {}

// ExportSpecifier maps a local binding to its exported name.
type ExportSpecifier struct {
	Local    string
	Exported string
}

// ExportList is `export { a, b as "c" }`.
type ExportList struct {
	Specifiers []ExportSpecifier
}

func (*ExportList) stmt() {}

// Program is a generated module.
type Program struct {
	Body []Stmt
}
