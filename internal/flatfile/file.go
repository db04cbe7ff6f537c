package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/boxoffice/internal/codec"
	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// maxLineSize bounds a single record line.
const maxLineSize = 1 << 20

// loader is read-only access to a collection. Stores hold the files of
// the entities they depend on through this interface only.
type loader[T any] interface {
	load() ([]T, error)
}

// recordFile is one entity's backing file. path and codec are set by
// Backend.Attach and read under the backend's read lock.
type recordFile[T any] struct {
	path  string
	codec codec.Codec[T]
}

func (f *recordFile[T]) configure(path string, c codec.Codec[T]) {
	f.path = path
	f.codec = c
}

// load decodes every record after the header line. A missing file is an
// empty collection. The first undecodable line aborts the load with a
// *types.CorruptStoreError; empty lines are skipped.
func (f *recordFile[T]) load() ([]T, error) {
	fh, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.path, err)
	}
	defer fh.Close()

	var records []T
	scanner := bufio.NewScanner(fh)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		r, err := f.codec.Decode(line)
		if err != nil {
			var perr *types.ParseError
			if errors.As(err, &perr) {
				perr.Line = lineNo
			}
			return nil, &types.CorruptStoreError{Path: f.path, Err: err}
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, &types.CorruptStoreError{Path: f.path, Err: fmt.Errorf("scanning line %d: %w", lineNo+1, err)}
	}
	return records, nil
}

// write replaces the file with the header and records using the
// temp-file, fsync, rename pattern. Records are encoded before the temp
// file is created, so an unencodable record leaves no trace.
func (f *recordFile[T]) write(records []T) error {
	var buf bytes.Buffer
	buf.WriteString(f.codec.Header())
	buf.WriteByte('\n')
	for _, r := range records {
		line, err := f.codec.Encode(r)
		if err != nil {
			return err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("setting file mode: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing records: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// exists reports whether the backing file is present.
func (f *recordFile[T]) exists() (bool, error) {
	_, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}
