package dataset

import (
	"os"
	"path/filepath"

	"sigscan/internal/fileutil"
	"sigscan/internal/flatten"
	"sigscan/internal/sigmf"
)

// FileResult is the outcome of parsing one metadata file.
type FileResult struct {
	Row         flatten.Row
	Diagnostics []flatten.Diagnostic
	Annotations []flatten.AnnotationDetail
}

// ParseFile reads, decodes, and flattens one metadata file. Errors are tagged
// with a sigmf kind (io or malformed_metadata); semantic issues come back as
// diagnostics on a successful result, with the offending columns nulled.
//
// Only the companion data file's size is consulted, never its contents.
func ParseFile(path string) (*FileResult, error) {
	data, err := fileutil.ReadMetaFile(path)
	if err != nil {
		return nil, sigmf.IOError(err)
	}

	meta, err := sigmf.Decode(data)
	if err != nil {
		return nil, err
	}

	dataPath := fileutil.DataPathFor(path)
	if meta.Global.Dataset != "" {
		dataPath = filepath.Join(filepath.Dir(path), meta.Global.Dataset)
	}
	dataSize := int64(-1)
	if info, err := os.Stat(dataPath); err == nil && !info.IsDir() {
		dataSize = info.Size()
	}

	row, diags, details := flatten.Flatten(meta, flatten.Input{
		MetaPath:     path,
		DataFileSize: dataSize,
	})
	return &FileResult{Row: row, Diagnostics: diags, Annotations: details}, nil
}
