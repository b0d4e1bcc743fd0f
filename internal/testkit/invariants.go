package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"icuc/internal/ast"
	"icuc/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed message:
// 1) every node span is non-empty and within the file content
// 2) every node span points at sf
// 3) children, cases and names lie inside their parent's span
func CheckSpanInvariants(nodes []*ast.Node, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: sf.ID, Start: 0, End: lenContent}
	return checkNodes(nodes, whole, sf.ID)
}

func checkNodes(nodes []*ast.Node, parent source.Span, file source.FileID) error {
	for _, n := range nodes {
		if n == nil {
			return fmt.Errorf("nil node inside %v", parent)
		}
		if err := checkSpan(n.Kind.String(), n.Span, parent, file); err != nil {
			return err
		}
		if err := checkChildren(n, file); err != nil {
			return err
		}
	}
	return nil
}

func checkChildren(n *ast.Node, file source.FileID) error {
	switch data := n.Data.(type) {
	case ast.ArgumentData:
		return checkSpan("argument name", data.NameSpan, n.Span, file)
	case ast.FormatData:
		return checkSpan("argument name", data.NameSpan, n.Span, file)
	case ast.SelectData:
		return checkCases(data.Cases, n.Span, file)
	case ast.PluralData:
		return checkCases(data.Cases, n.Span, file)
	case ast.TagData:
		if err := checkSpan("tag name", data.NameSpan, n.Span, file); err != nil {
			return err
		}
		return checkNodes(data.Children, n.Span, file)
	}
	return nil
}

func checkCases(cases []ast.Case, parent source.Span, file source.FileID) error {
	for _, cs := range cases {
		if err := checkSpan("case "+cs.Key, cs.Span, parent, file); err != nil {
			return err
		}
		if err := checkSpan("case key "+cs.Key, cs.KeySpan, cs.Span, file); err != nil {
			return err
		}
		if err := checkNodes(cs.Body, cs.Span, file); err != nil {
			return err
		}
	}
	return nil
}

func checkSpan(what string, sp, parent source.Span, file source.FileID) error {
	if sp.End <= sp.Start {
		return fmt.Errorf("%s: empty span %v", what, sp)
	}
	if sp.File != file {
		return fmt.Errorf("%s: span file mismatch: got=%d want=%d", what, sp.File, file)
	}
	if sp.Start < parent.Start || sp.End > parent.End {
		return fmt.Errorf("%s: span %v is outside %v", what, sp, parent)
	}
	return nil
}
