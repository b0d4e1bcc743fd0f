package source

type (
	// FileID uniquely identifies a source text within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source text.
	FileFlags uint8
)

const (
	// FileVirtual marks a text that was added from memory (a message, a test, stdin).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content of one source text. For ICU messages the
// "file" is the message body itself; Path carries "<file>#<message>".
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source text.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, counted in runes
}
