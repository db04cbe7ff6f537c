// Package export turns the record stores into artifacts: a zip of the
// backing files, a JSON manifest with digests, and a SQLite snapshot for
// ad-hoc SQL. Every function here reads store output and never mutates
// the stores.
package export

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mesh-intelligence/boxoffice/pkg/types"
)

// Artifact names written by Write.
const (
	ArchiveName  = "boxoffice-export.zip"
	ManifestName = "manifest.json"
	SnapshotName = "boxoffice.db"
)

// Source is one backing file to export.
type Source struct {
	Entity types.Entity
	Path   string
}

// Sources lists the backing files of cfg in lock order.
func Sources(cfg types.Config) []Source {
	out := make([]Source, 0, len(types.Entities))
	for _, e := range types.Entities {
		out = append(out, Source{Entity: e, Path: cfg.Path(e)})
	}
	return out
}

// FileEntry describes one exported file.
type FileEntry struct {
	Entity    types.Entity `json:"entity"`
	Name      string       `json:"name"`
	SizeBytes int64        `json:"size_bytes"`
	SHA256    string       `json:"sha256"`
}

// Manifest describes an export. ID is a UUID v7 so manifests sort by
// creation time.
type Manifest struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Files     []FileEntry `json:"files"`
	Snapshot  string      `json:"snapshot,omitempty"`
}

// Zip writes a zip archive holding each source file under its base name.
// Sources whose file does not exist are skipped.
func Zip(w io.Writer, sources ...Source) error {
	zw := zip.NewWriter(w)
	for _, src := range sources {
		if err := addFile(zw, src.Path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			zw.Close()
			return fmt.Errorf("archiving %s: %w", src.Entity, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, path string) error {
	fh, err := os.Open(path)
	if err != nil {
		return err
	}
	defer fh.Close()

	info, err := fh.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(dst, fh)
	return err
}

// Digest returns the hex SHA-256 of the file at path and its size.
func Digest(path string) (string, int64, error) {
	fh, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer fh.Close()

	h := sha256.New()
	n, err := io.Copy(h, fh)
	if err != nil {
		return "", 0, fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// NewManifest digests every existing source file.
func NewManifest(now time.Time, sources ...Source) (Manifest, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Manifest{}, fmt.Errorf("generating export id: %w", err)
	}
	m := Manifest{ID: id.String(), CreatedAt: now.UTC(), Files: []FileEntry{}}
	for _, src := range sources {
		sum, size, err := Digest(src.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Manifest{}, fmt.Errorf("digesting %s: %w", src.Entity, err)
		}
		m.Files = append(m.Files, FileEntry{
			Entity:    src.Entity,
			Name:      filepath.Base(src.Path),
			SizeBytes: size,
			SHA256:    sum,
		})
	}
	return m, nil
}

// WriteManifest encodes m as indented JSON.
func WriteManifest(w io.Writer, m Manifest) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return nil
}

// Collection is the content of the three stores at one point in time per
// store.
type Collection struct {
	Movies   []types.Movie
	Sessions []types.Session
	Tickets  []types.Ticket
}

// Collect lists the three stores concurrently.
func Collect(ctx context.Context, c types.Catalog) (Collection, error) {
	var col Collection
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		col.Movies, err = c.Movies().List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		col.Sessions, err = c.Sessions().List(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		col.Tickets, err = c.Tickets().List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Collection{}, fmt.Errorf("collecting stores: %w", err)
	}
	return col, nil
}

// Options controls Write.
type Options struct {
	OutDir string
	SQLite bool
	Now    func() time.Time
}

// Write produces the archive and manifest, and the SQLite snapshot when
// requested, in opts.OutDir. It returns the manifest written.
func Write(ctx context.Context, c types.Catalog, cfg types.Config, opts Options) (Manifest, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return Manifest{}, fmt.Errorf("creating output dir: %w", err)
	}
	sources := Sources(cfg)

	if err := writeFile(filepath.Join(opts.OutDir, ArchiveName), func(w io.Writer) error {
		return Zip(w, sources...)
	}); err != nil {
		return Manifest{}, err
	}

	m, err := NewManifest(opts.Now(), sources...)
	if err != nil {
		return Manifest{}, err
	}

	if opts.SQLite {
		col, err := Collect(ctx, c)
		if err != nil {
			return Manifest{}, err
		}
		if err := SQLiteSnapshot(ctx, filepath.Join(opts.OutDir, SnapshotName), col); err != nil {
			return Manifest{}, err
		}
		m.Snapshot = SnapshotName
	}

	if err := writeFile(filepath.Join(opts.OutDir, ManifestName), func(w io.Writer) error {
		return WriteManifest(w, m)
	}); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func writeFile(path string, fill func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := fill(fh); err != nil {
		fh.Close()
		return err
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
