package driver

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/tidwall/gjson"

	"icuc/internal/compiler"
	"icuc/internal/diag"
	"icuc/internal/source"
)

// ReadMessages decodes the message catalog stored in fs under id. Keys keep
// their file order; nested objects flatten into dotted names, so
// {"home": {"title": "..."}} yields the message "home.title".
// Every malformed entry is reported; well-formed ones are still returned.
func ReadMessages(fs *source.FileSet, id source.FileID) ([]compiler.Message, []diag.Diagnostic) {
	f := fs.Get(id)
	if f == nil {
		return nil, []diag.Diagnostic{diag.NewError(diag.IOInvalidMessageFile, source.Span{}, "unknown message file")}
	}
	whole := source.Span{File: id, Start: 0, End: spanOffset(len(f.Content))}
	if !gjson.ValidBytes(f.Content) {
		return nil, []diag.Diagnostic{diag.NewError(diag.IOInvalidMessageFile, whole, "message file is not valid JSON")}
	}
	root := gjson.ParseBytes(f.Content)
	if !root.IsObject() {
		return nil, []diag.Diagnostic{diag.NewError(diag.IOInvalidMessageFile, whole, "message file must contain a JSON object")}
	}

	r := &catalogReader{file: id, whole: whole, content: f.Content}
	r.object(root, "", 0)
	return r.messages, r.diags
}

type catalogReader struct {
	file     source.FileID
	whole    source.Span
	content  []byte
	messages []compiler.Message
	diags    []diag.Diagnostic
}

// object walks one JSON object whose raw text starts at byte base of the file.
func (r *catalogReader) object(obj gjson.Result, prefix string, base int) {
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.Str
		if prefix != "" {
			name = prefix + "." + name
		}
		start := r.locate(value, base)
		switch {
		case value.Type == gjson.String:
			r.messages = append(r.messages, compiler.Message{Name: name, Text: value.Str})
		case value.IsObject():
			r.object(value, name, start)
		default:
			msg := fmt.Sprintf("message %q must be a string, got %s", name, describe(value))
			r.diags = append(r.diags, diag.NewError(diag.IOInvalidMessageFile, r.span(value, start), msg))
		}
		return true
	})
}

// locate finds the file offset of value. Depending on how the parent was
// produced gjson reports Index either against the whole file or against the
// parent's raw text; the candidate whose bytes match Raw wins, -1 otherwise.
func (r *catalogReader) locate(value gjson.Result, base int) int {
	for _, off := range []int{value.Index, base + value.Index} {
		end := off + len(value.Raw)
		if off > 0 && end <= len(r.content) && string(r.content[off:end]) == value.Raw {
			return off
		}
	}
	return -1
}

func (r *catalogReader) span(value gjson.Result, start int) source.Span {
	if start < 0 {
		return r.whole
	}
	return source.Span{File: r.file, Start: spanOffset(start), End: spanOffset(start + len(value.Raw))}
}

func describe(value gjson.Result) string {
	switch {
	case value.IsArray():
		return "array"
	case value.Type == gjson.Number:
		return "number"
	case value.Type == gjson.True, value.Type == gjson.False:
		return "boolean"
	case value.Type == gjson.Null:
		return "null"
	default:
		return value.Type.String()
	}
}

func spanOffset(n int) uint32 {
	off, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("message file offset overflow: %w", err))
	}
	return off
}
