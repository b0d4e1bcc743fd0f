package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"icuc/internal/diag"
	"icuc/internal/source"
)

const tabWidth = 4

type palette struct {
	err    *color.Color
	warn   *color.Color
	info   *color.Color
	note   *color.Color
	help   *color.Color
	gutter *color.Color
	bold   *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgGreen, color.Bold),
		help:   mk(color.FgCyan),
		gutter: mk(color.FgBlue, color.Bold),
		bold:   mk(color.Bold),
	}
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
//
//	ERROR[ICU3001]: <Message>
//	  --> <path>:<line>:<col>
//	   |
//	 3 | <line>
//	   |   ^~~~
//
// затем Notes и Fixes, если они включены опциями.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &d, fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	sevColor := pal.severity(d.Severity)
	fmt.Fprintf(w, "%s%s %s\n",
		sevColor.Sprintf("%s[%s]", d.Severity, d.Code.ID()),
		pal.bold.Sprint(":"),
		pal.bold.Sprint(d.Message))

	file := fs.Get(d.Primary.File)
	if file == nil {
		return
	}
	start, end := fs.Resolve(d.Primary)

	firstLine := start.Line
	lastLine := end.Line
	if ctx := uint32(max(opts.Context, 0)); ctx > 0 {
		if firstLine > ctx {
			firstLine -= ctx
		} else {
			firstLine = 1
		}
		lastLine = min(lastLine+ctx, file.LineCount())
	}
	gutterWidth := len(strconv.FormatUint(uint64(lastLine), 10))
	pad := strings.Repeat(" ", gutterWidth)

	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"), formatPath(file, fs, opts.PathMode), start.Line, start.Col)
	fmt.Fprintf(w, "%s %s\n", pad, pal.gutter.Sprint("|"))

	for line := firstLine; line <= lastLine; line++ {
		text := file.GetLine(line)
		display := expandTabs(text)
		if opts.Width > 0 {
			display = runewidth.Truncate(display, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, line), pal.gutter.Sprint("|"), display)

		if line < start.Line || line > end.Line {
			continue
		}
		from := 1
		if line == start.Line {
			from = int(start.Col)
		}
		to := runeCount(text) + 1
		if line == end.Line {
			to = int(end.Col)
		}
		marker := underline(text, from, to, line == start.Line)
		if marker == "" {
			continue
		}
		fmt.Fprintf(w, "%s %s %s\n", pad, pal.gutter.Sprint("|"), sevColor.Sprint(marker))
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			loc := ""
			if nf := fs.Get(note.Span.File); nf != nil {
				ns, _ := fs.Resolve(note.Span)
				loc = fmt.Sprintf(" (%s:%d:%d)", formatPath(nf, fs, opts.PathMode), ns.Line, ns.Col)
			}
			fmt.Fprintf(w, "%s %s %s %s%s\n", pad, pal.gutter.Sprint("="), pal.note.Sprint("note:"), note.Msg, loc)
		}
	}

	if opts.ShowFixes {
		for _, fix := range d.Fixes {
			fmt.Fprintf(w, "%s %s %s %s\n", pad, pal.gutter.Sprint("="), pal.help.Sprint("help:"), fix.Title)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range fix.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, l := range preview.before {
					fmt.Fprintf(w, "%s   %s %s\n", pad, pal.err.Sprint("-"), expandTabs(l))
				}
				for _, l := range preview.after {
					fmt.Fprintf(w, "%s   %s %s\n", pad, pal.note.Sprint("+"), expandTabs(l))
				}
			}
		}
	}
}

// underline renders "^~~~" under the runes [from, to) of line (1-based columns).
// Empty spans get a single caret. Continuation lines use '~' only.
func underline(line string, from, to int, head bool) string {
	runes := []rune(line)
	if from < 1 {
		from = 1
	}
	if to < from {
		to = from
	}
	prefix := string(runes[:min(from-1, len(runes))])
	var spanned string
	if from-1 < len(runes) {
		spanned = string(runes[from-1 : min(to-1, len(runes))])
	}

	offset := runewidth.StringWidth(expandTabs(prefix))
	width := runewidth.StringWidth(expandTabs(spanned))
	if width == 0 {
		if !head {
			return ""
		}
		width = 1
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", offset))
	if head {
		b.WriteByte('^')
		width--
	}
	b.WriteString(strings.Repeat("~", width))
	return b.String()
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func runeCount(s string) int {
	return len([]rune(s))
}
