package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MessageFileExt is the extension of message catalogs picked up from directories.
const MessageFileExt = ".json"

// ExpandInputs resolves files, directories and glob patterns into a sorted,
// deduplicated list of message files. Relative inputs are taken against baseDir.
func ExpandInputs(inputs []string, baseDir string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, in := range inputs {
		if strings.TrimSpace(in) == "" {
			continue
		}
		pattern := in
		if baseDir != "" && !filepath.IsAbs(pattern) {
			pattern = filepath.Join(baseDir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", in, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input %q matched no files", in)
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, err
			}
			if !info.IsDir() {
				add(match)
				continue
			}
			dirFiles, err := listMessageFiles(match)
			if err != nil {
				return nil, err
			}
			for _, f := range dirFiles {
				add(f)
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// listMessageFiles returns every *.json under dir in lexical order.
func listMessageFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, MessageFileExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
