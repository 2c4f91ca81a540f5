package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Companion-file naming convention for signal captures.
const (
	MetaExtension = ".sigmf-meta"
	DataExtension = ".sigmf-data"
)

// IsMetaFile reports whether name follows the metadata naming convention.
func IsMetaFile(name string) bool {
	return strings.HasSuffix(name, MetaExtension) && name != MetaExtension
}

// DataFilenameFor derives the companion data-file name from a metadata path
// by swapping the extension. Only the base name is returned.
func DataFilenameFor(metaPath string) string {
	base := filepath.Base(metaPath)
	if strings.HasSuffix(base, MetaExtension) {
		return strings.TrimSuffix(base, MetaExtension) + DataExtension
	}
	return base + DataExtension
}

// DataPathFor derives the full companion data-file path next to metaPath.
func DataPathFor(metaPath string) string {
	return filepath.Join(filepath.Dir(metaPath), DataFilenameFor(metaPath))
}

// DiscoverMetaFiles walks root and returns every metadata file beneath it.
// Hidden directories are skipped. The traversal order carries no meaning for
// callers; rows derived from these paths may be reordered freely.
func DiscoverMetaFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != root && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsMetaFile(entry.Name()) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// ReadMetaFile reads one metadata file, stripping a UTF-8 BOM if present.
// Capture tooling on Windows occasionally emits BOM'd JSON.
func ReadMetaFile(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	decoded, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), raw)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
