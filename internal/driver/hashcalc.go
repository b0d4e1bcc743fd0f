package driver

import (
	"crypto/sha256"
	"sort"
	"strconv"

	"icuc/internal/skeleton"
	"icuc/internal/version"
)

// Digest is a SHA-256 cache key.
type Digest [32]byte

// IsZero reports whether d was never computed.
func (d Digest) IsZero() bool { return d == Digest{} }

// cacheKey: H(schema || content || options). Everything that changes the
// emitted text has to be part of the key.
func cacheKey(content [32]byte, opts *Options) Digest {
	h := sha256.New()
	field := func(s string) {
		_, _ = h.Write([]byte(strconv.Itoa(len(s))))
		_, _ = h.Write([]byte{':'})
		_, _ = h.Write([]byte(s))
	}
	field(strconv.Itoa(int(diskCacheSchemaVersion)))
	field(version.Version)
	field(version.GitCommit)
	_, _ = h.Write(content[:])

	field(opts.Compiler.Locale)
	field(opts.Compiler.Target.String())
	field(strconv.FormatBool(opts.Codegen.TypeScript))
	field(opts.Codegen.JSX.String())
	field(opts.Codegen.Namespace)
	field(strconv.FormatBool(opts.Declarations))
	hashFormats(field, "number", opts.Compiler.Formats.Number)
	hashFormats(field, "date", opts.Compiler.Formats.Date)
	hashFormats(field, "time", opts.Compiler.Formats.Time)

	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// hashFormats writes style overrides in sorted order; Canonical makes option
// order irrelevant.
func hashFormats(field func(string), kind string, styles map[string]skeleton.Options) {
	names := make([]string, 0, len(styles))
	for name := range styles {
		names = append(names, name)
	}
	sort.Strings(names)
	field(kind)
	field(strconv.Itoa(len(names)))
	for _, name := range names {
		field(name)
		field(styles[name].Canonical())
	}
}
