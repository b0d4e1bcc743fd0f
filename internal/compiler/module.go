package compiler

import (
	"fmt"

	"fortio.org/safecast"

	"icuc/internal/ast"
	"icuc/internal/diag"
	"icuc/internal/jsast"
	"icuc/internal/parser"
	"icuc/internal/source"
	"icuc/internal/symbols"
)

const (
	markupNamespace = "React"
	intlNamespace   = "Intl"
	markupSource    = "react"
	defaultLocale   = "en"
)

// Target selects what compiled messages return.
type Target uint8

const (
	// TargetTree returns markup trees built with the React API.
	TargetTree Target = iota
	// TargetString returns plain strings.
	TargetString
)

func (t Target) String() string {
	if t == TargetString {
		return "string"
	}
	return "tree"
}

// ParseTarget parses a --target value.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "tree", "react", "":
		return TargetTree, nil
	case "string":
		return TargetString, nil
	default:
		return TargetTree, fmt.Errorf("unknown target %q (want tree or string)", s)
	}
}

// Options configure one module compilation.
type Options struct {
	Locale  string
	Formats Formats // overrides merged on top of DefaultFormats
	Target  Target
	// File names the message source; messages are registered as "<File>#<name>".
	File string
}

// Message is one named ICU message.
type Message struct {
	Name string
	Text string
}

// Result is a built module.
type Result struct {
	Program   *jsast.Program
	Arguments map[string][]Argument
	// Exports lists export names in insertion order.
	Exports []string
}

// Module accumulates compiled messages and the constants they share.
// Once Build has run the module is finalized and rejects further use.
type Module struct {
	opts    Options
	formats Formats
	fs      *source.FileSet
	table   *symbols.Table
	root    symbols.ScopeID

	consts      []jsast.Stmt
	shared      map[sharedKey]string
	sharedOrder []sharedKey

	functions []jsast.Stmt
	exports   []jsast.ExportSpecifier
	exported  map[string]struct{}
	arguments map[string][]Argument
	order     []string
	finalized bool
}

// NewModule creates an empty module. fs receives one virtual file per
// message; nil allocates a private set.
func NewModule(fs *source.FileSet, opts Options) *Module {
	if fs == nil {
		fs = source.NewFileSet()
	}
	if opts.Locale == "" {
		opts.Locale = defaultLocale
	}
	m := &Module{
		opts:      opts,
		formats:   DefaultFormats().merge(opts.Formats),
		fs:        fs,
		table:     symbols.NewTable(symbols.Hints{Scopes: 8, Symbols: 32}),
		shared:    make(map[sharedKey]string),
		exported:  make(map[string]struct{}),
		arguments: make(map[string][]Argument),
	}
	m.root = m.table.NewScope(symbols.ScopeModule, symbols.NoScopeID, source.Span{})
	// hoisted formatters read Intl; a message function named Intl would shadow it
	if _, err := m.table.CreateBinding(m.root, intlNamespace, symbols.SymbolGlobal); err != nil {
		panic(err)
	}
	if opts.Target == TargetTree {
		if _, err := m.table.CreateBinding(m.root, markupNamespace, symbols.SymbolImport); err != nil {
			panic(err)
		}
	}
	return m
}

// FileSet returns the set message texts are registered in.
func (m *Module) FileSet() *source.FileSet { return m.fs }

// Target reports the module's compile target.
func (m *Module) Target() Target { return m.opts.Target }

func (m *Module) virtualName(name string) string {
	if m.opts.File == "" {
		return name
	}
	return m.opts.File + "#" + name
}

// AddMessage parses text and compiles it as the export name.
// Errors are *Error values, or ErrModuleFinalized.
func (m *Module) AddMessage(name, text string) error {
	if m.finalized {
		return ErrModuleFinalized
	}
	rep := &diag.FirstErrorReporter{}
	id, nodes, ok := parser.ParseString(m.fs, m.virtualName(name), text, parser.Options{MaxErrors: 1, Reporter: rep})
	if !ok {
		if rep.First == nil {
			return fmt.Errorf("parse %q: failed without a diagnostic", name)
		}
		return newError(m.fs, name, *rep.First)
	}
	return m.add(name, nodes, m.fileSpan(id))
}

// AddNodes compiles an already parsed message.
func (m *Module) AddNodes(name string, nodes []*ast.Node) error {
	if m.finalized {
		return ErrModuleFinalized
	}
	var span source.Span
	if len(nodes) > 0 {
		span = nodes[0].Span.Cover(nodes[len(nodes)-1].Span)
	}
	return m.add(name, nodes, span)
}

func (m *Module) fileSpan(id source.FileID) source.Span {
	f := m.fs.Get(id)
	end, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("message length overflow: %w", err))
	}
	return source.Span{File: id, Start: 0, End: end}
}

func (m *Module) add(name string, nodes []*ast.Node, span source.Span) error {
	if _, dup := m.exported[name]; dup {
		d := diag.NewError(diag.CompDuplicateExport, span, fmt.Sprintf("message %q is already defined", name))
		return newError(m.fs, name, d)
	}

	mark := m.mark()
	c := newMessageCompiler(m, name, span)
	ret, err := c.compile(nodes)
	if err != nil {
		m.rollback(mark)
		if c.rep.First != nil {
			return newError(m.fs, name, *c.rep.First)
		}
		return err
	}

	local := name
	if symbols.IsBindableName(name) && !m.table.HasBinding(m.root, name) {
		if _, err := m.table.CreateBinding(m.root, name, symbols.SymbolFunction); err != nil {
			return err
		}
	} else {
		local = m.table.CreateUniqueBinding(m.root, name, symbols.SymbolFunction)
	}

	params := make([]jsast.Param, 0, len(c.args))
	args := make([]Argument, 0, len(c.args))
	for _, a := range c.args {
		params = append(params, jsast.Param{Name: a.name, Local: a.local, Type: a.typ.TSType()})
		args = append(args, Argument{Name: a.name, Local: a.local, Type: a.typ})
	}
	body := append(c.body, &jsast.Return{Value: ret})

	m.functions = append(m.functions, &jsast.FunctionDecl{
		Name:       local,
		Params:     params,
		Body:       body,
		ReturnType: m.returnType(),
	})
	m.exports = append(m.exports, jsast.ExportSpecifier{Local: local, Exported: name})
	m.exported[name] = struct{}{}
	m.arguments[name] = args
	m.order = append(m.order, name)
	return nil
}

func (m *Module) returnType() string {
	if m.opts.Target == TargetTree {
		return "React.ReactNode"
	}
	return "string"
}

type moduleMark struct{ consts, shared int }

func (m *Module) mark() moduleMark {
	return moduleMark{consts: len(m.consts), shared: len(m.sharedOrder)}
}

// rollback drops module constants introduced by a failed message.
func (m *Module) rollback(mk moduleMark) {
	for _, key := range m.sharedOrder[mk.shared:] {
		delete(m.shared, key)
	}
	m.sharedOrder = m.sharedOrder[:mk.shared]
	m.consts = m.consts[:mk.consts]
}

// Build assembles the program: the markup import, shared constants in
// first-use order, message functions and one export list.
func (m *Module) Build() (*Result, error) {
	if m.finalized {
		return nil, ErrModuleFinalized
	}
	m.finalized = true
	if err := m.table.Validate(); err != nil {
		return nil, fmt.Errorf("scope table is inconsistent: %w", err)
	}

	body := make([]jsast.Stmt, 0, len(m.consts)+len(m.functions)+2)
	if m.opts.Target == TargetTree {
		body = append(body, &jsast.ImportNamespace{Local: markupNamespace, Source: markupSource})
	}
	body = append(body, m.consts...)
	body = append(body, m.functions...)
	body = append(body, &jsast.ExportList{Specifiers: m.exports})

	return &Result{
		Program:   &jsast.Program{Body: body},
		Arguments: m.arguments,
		Exports:   m.order,
	}, nil
}

// Compile builds one module from messages in order. The first failing
// message aborts compilation.
func Compile(messages []Message, opts Options) (*Result, error) {
	m := NewModule(nil, opts)
	for _, msg := range messages {
		if err := m.AddMessage(msg.Name, msg.Text); err != nil {
			return nil, err
		}
	}
	return m.Build()
}
