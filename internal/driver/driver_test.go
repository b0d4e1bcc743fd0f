package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"icuc/internal/compiler"
	"icuc/internal/diag"
	"icuc/internal/source"
)

const greetCatalog = `{
  "greet": "Hi {name}, you have {count, plural, =0 {no messages} one {one message} other {# messages}}.",
  "home": {
    "title": "Welcome <b>{user}</b>"
  }
}
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func messageNames(msgs []compiler.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Name
	}
	return out
}

func TestReadMessagesKeepsOrderAndFlattens(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("m.json", []byte(`{"b": "B", "a": {"x": "X", "y": {"z": "Z"}}, "c": "C \"q\""}`), 0)

	msgs, problems := ReadMessages(fs, id)
	require.Empty(t, problems)
	assert.Equal(t, []string{"b", "a.x", "a.y.z", "c"}, messageNames(msgs))
	assert.Equal(t, `C "q"`, msgs[3].Text)
}

func TestReadMessagesReportsNonStrings(t *testing.T) {
	content := `{"ok": "fine", "n": 42, "list": ["a"]}`
	fs := source.NewFileSet()
	id := fs.Add("m.json", []byte(content), 0)

	msgs, problems := ReadMessages(fs, id)
	assert.Equal(t, []string{"ok"}, messageNames(msgs))
	require.Len(t, problems, 2)
	for _, d := range problems {
		assert.Equal(t, diag.IOInvalidMessageFile, d.Code)
	}
	sp := problems[0].Primary
	assert.Equal(t, "42", content[sp.Start:sp.End])
	assert.Contains(t, problems[1].Message, "array")
}

func TestReadMessagesRejectsBadDocuments(t *testing.T) {
	for _, content := range []string{`{"a": `, `["a"]`, `"text"`} {
		fs := source.NewFileSet()
		id := fs.Add("m.json", []byte(content), 0)
		msgs, problems := ReadMessages(fs, id)
		assert.Empty(t, msgs, content)
		require.Len(t, problems, 1, content)
		assert.Equal(t, diag.IOInvalidMessageFile, problems[0].Code)
	}
}

func TestCompileFilesWritesModules(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, filepath.Join(dir, "messages", "en.json"), greetCatalog)
	b := writeFile(t, filepath.Join(dir, "messages", "fr.json"), `{"bye": "Salut {name}"}`)

	res, err := CompileFiles(context.Background(), []string{a, b}, Options{
		Compiler:     compiler.Options{Target: compiler.TargetString},
		Declarations: true,
		BaseDir:      dir,
		Write:        true,
		Jobs:         2,
	})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Empty(t, res.Failed())

	en := res.Files[0]
	assert.Equal(t, filepath.Join(dir, "messages", "en.js"), en.Output)
	assert.Equal(t, filepath.Join(dir, "messages", "en.d.ts"), en.DeclarationsPath)
	assert.Equal(t, []string{"greet", "home.title"}, en.Exports)
	assert.Len(t, en.Arguments["greet"], 2)

	code, err := os.ReadFile(en.Output)
	require.NoError(t, err)
	assert.Equal(t, en.Code, string(code))
	assert.Contains(t, string(code), `export { greet, _home_title as "home.title" };`)

	dts, err := os.ReadFile(en.DeclarationsPath)
	require.NoError(t, err)
	assert.Contains(t, string(dts), "declare function greet(")

	fr, err := os.ReadFile(filepath.Join(dir, "messages", "fr.js"))
	require.NoError(t, err)
	assert.Contains(t, string(fr), "export { bye };")
}

func TestCompileFilesOutDirMirrorsLayout(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "locales", "de", "app.json"), `{"hi": "Hallo <b>{name}</b>"}`)
	out := filepath.Join(dir, "gen")

	res, err := CompileFiles(context.Background(), []string{in}, Options{
		Compiler: compiler.Options{Target: compiler.TargetTree},
		BaseDir:  dir,
		OutDir:   out,
		Write:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "locales", "de", "app.jsx"), res.Files[0].Output)
	assert.FileExists(t, res.Files[0].Output)
}

func TestCompileFilesReportsMessageErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, filepath.Join(dir, "bad.json"), `{
  "pronoun": "{g, select, male {He}}",
  "fine": "ok",
  "tag": "<my-tag>x</my-tag>"
}`)
	good := writeFile(t, filepath.Join(dir, "good.json"), `{"hi": "hi"}`)

	res, err := CompileFiles(context.Background(), []string{bad, good}, Options{BaseDir: dir, Write: true})
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 1)
	assert.Contains(t, merr.Errors[0].Error(), "bad.json")

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, bad, failed[0].Path)

	var cerr *compiler.Error
	require.True(t, errors.As(failed[0].Err, &cerr))
	assert.Equal(t, diag.CompMissingDefaultCase, cerr.Code)
	assert.Equal(t, "bad.json#pronoun", cerr.Path)
	require.Equal(t, 1, failed[0].Bag.Len())
	assert.NoFileExists(t, filepath.Join(dir, "bad.js"))
	assert.FileExists(t, filepath.Join(dir, "good.js"))
}

func TestKeepGoingCollectsEveryMessage(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, filepath.Join(dir, "bad.json"), `{
  "pronoun": "{g, select, male {He}}",
  "count": 3,
  "tag": "<my-tag>x</my-tag>"
}`)

	res := CompileFile(context.Background(), bad, Options{BaseDir: dir, KeepGoing: true})
	require.True(t, res.Failed())

	var codes []diag.Code
	for _, d := range res.Bag.Items() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []diag.Code{diag.IOInvalidMessageFile, diag.CompMissingDefaultCase, diag.CompInvalidIdentifier}, codes)
}

func TestCompileFilesUsesDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	in := writeFile(t, filepath.Join(dir, "en.json"), greetCatalog)

	opts := Options{
		Compiler: compiler.Options{Target: compiler.TargetString},
		BaseDir:  dir,
		Cache:    cache,
		Write:    true,
	}
	first := CompileFile(context.Background(), in, opts)
	require.NoError(t, first.Err)
	assert.False(t, first.CacheHit)

	require.NoError(t, os.Remove(first.Output))
	second := CompileFile(context.Background(), in, opts)
	require.NoError(t, second.Err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Exports, second.Exports)
	assert.Equal(t, first.Arguments, second.Arguments)
	assert.FileExists(t, second.Output)

	// другая цель - другой ключ
	opts.Compiler.Target = compiler.TargetTree
	third := CompileFile(context.Background(), in, opts)
	require.NoError(t, third.Err)
	assert.False(t, third.CacheHit)

	require.NoError(t, cache.DropAll())
	opts.Compiler.Target = compiler.TargetString
	fourth := CompileFile(context.Background(), in, opts)
	assert.False(t, fourth.CacheHit)
}

func TestPhaseObserverAndTimings(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "en.json"), `{"hi": "hi {name}"}`)

	var (
		mu     sync.Mutex
		starts []string
	)
	res := CompileFile(context.Background(), in, Options{
		BaseDir: dir,
		Timings: true,
		Observer: func(ev PhaseEvent) {
			if ev.Status != PhaseStart {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			starts = append(starts, ev.Name)
		},
	})
	require.NoError(t, res.Err)
	assert.Equal(t, []string{PhaseLoad, PhaseParse, PhaseCompile, PhaseEmit}, starts)
	require.Len(t, res.Timing.Phases, 4)

	items := res.Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.ObsTimings, items[0].Code)
	assert.Equal(t, diag.SevInfo, items[0].Severity)
}

func TestCompileFilesHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, filepath.Join(dir, "en.json"), `{"hi": "hi"}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := CompileFiles(ctx, []string{in}, Options{BaseDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadFailureIsReported(t *testing.T) {
	dir := t.TempDir()
	res := CompileFile(context.Background(), filepath.Join(dir, "missing.json"), Options{BaseDir: dir})
	require.True(t, res.Failed())
	require.Equal(t, 1, res.Bag.Len())
	assert.Equal(t, diag.IOLoadFileError, res.Bag.Items()[0].Code)
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a", "en.json"), "{}")
	writeFile(t, filepath.Join(dir, "a", "nested", "fr.json"), "{}")
	writeFile(t, filepath.Join(dir, "a", "notes.txt"), "")
	writeFile(t, filepath.Join(dir, "b.json"), "{}")

	files, err := ExpandInputs([]string{"a", "*.json", "b.json"}, dir)
	require.NoError(t, err)
	want := []string{
		filepath.Join(dir, "a", "en.json"),
		filepath.Join(dir, "a", "nested", "fr.json"),
		filepath.Join(dir, "b.json"),
	}
	assert.Equal(t, want, files)

	_, err = ExpandInputs([]string{"nothing-*.json"}, dir)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "matched no files"))
}

func TestOutputPaths(t *testing.T) {
	opts := &Options{}
	mod, dts := outputPaths(filepath.Join("m", "en.json"), ".ts", false, opts)
	assert.Equal(t, filepath.Join("m", "en.ts"), mod)
	assert.Empty(t, dts)

	opts = &Options{OutDir: "out", BaseDir: "/nowhere/else"}
	mod, dts = outputPaths(filepath.Join("m", "en.json"), ".js", true, opts)
	assert.Equal(t, filepath.Join("out", "en.js"), mod)
	assert.Equal(t, filepath.Join("out", "en.d.ts"), dts)
}
