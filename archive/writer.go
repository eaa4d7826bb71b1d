// Package archive builds and restores Medal backup bundles.
//
// A bundle is a single zip file holding every configured subdirectory of the
// Medal data root under its own name, the clips.json state file and the
// medaldir.json metadata record at the bundle root.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

const (
	BundlePrefix     = "Medal_Backup_"
	BundleExt        = ".zip"
	StateFileName    = "clips.json"
	MetadataFileName = "medaldir.json"

	copyBufferSize = 1 << 20
)

// DefaultSubdirectories are always part of a backup, in this order.
var DefaultSubdirectories = []string{
	".Thumbnails",
	"Clips",
	"editor",
	"Edits",
	"Screenshots",
}

// Job describes one backup run. It is built once, before anything is written.
type Job struct {
	SourceRoot      string
	DestinationRoot string
	Subdirectories  []string
	StateFile       string
}

// Stats totals the user data written to a bundle. The metadata record is not counted.
type Stats struct {
	Files   int
	Bytes   int64
	Elapsed time.Duration
}

// Seconds returns the elapsed wall-clock time in seconds.
func (s Stats) Seconds() float64 {
	return s.Elapsed.Seconds()
}

// Entry is reported for every file written into a bundle.
type Entry struct {
	Name    string
	Size    int64
	Elapsed time.Duration
}

// Result of a successful backup.
type Result struct {
	Path  string
	Stats Stats
}

// Writer streams a Job into a bundle.
type Writer struct {
	// Compression level passed to flate. Zero means flate.BestCompression.
	Level int
	// OnEntry is called after each file has been written.
	OnEntry func(Entry)
	// OnSkip is called for each configured item that does not exist.
	OnSkip func(path string)

	now func() time.Time
}

const bundleStampLayout = "2006-01-02T15:04:05.000Z"

// BundleName returns the file name of a bundle created at t.
func BundleName(t time.Time) string {
	stamp := t.UTC().Format(bundleStampLayout)
	stamp = strings.NewReplacer("-", "_", ":", "_", ".", "_").Replace(stamp)
	return BundlePrefix + stamp + BundleExt
}

// ParseBundleName returns the creation time encoded by BundleName.
// ok is false for any name BundleName could not have produced.
func ParseBundleName(name string) (t time.Time, ok bool) {
	stamp, found := strings.CutPrefix(name, BundlePrefix)
	if !found {
		return time.Time{}, false
	}
	stamp, found = strings.CutSuffix(stamp, BundleExt)
	if !found || len(stamp) != len(bundleStampLayout) {
		return time.Time{}, false
	}

	// separators sit at fixed offsets: YYYY_MM_DDThh_mm_ss_fffZ
	b := []byte(stamp)
	for i, sep := range map[int]byte{4: '-', 7: '-', 13: ':', 16: ':', 19: '.'} {
		if b[i] != '_' {
			return time.Time{}, false
		}
		b[i] = sep
	}

	t, err := time.Parse(bundleStampLayout, string(b))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// IsBundleName reports whether name was produced by BundleName.
func IsBundleName(name string) bool {
	_, ok := ParseBundleName(name)
	return ok
}

// Backup writes a new bundle for job into job.DestinationRoot.
// Any read or write error aborts the run; a partial bundle is left in place.
func (w *Writer) Backup(job Job) (Result, error) {
	start := w.clock()

	if err := os.MkdirAll(job.DestinationRoot, 0755); err != nil {
		return Result{}, fmt.Errorf("creating backup directory: %w", err)
	}

	bundlePath := filepath.Join(job.DestinationRoot, BundleName(start))
	stats, err := w.write(bundlePath, job)
	if err != nil {
		return Result{}, err
	}
	stats.Elapsed = w.clock().Sub(start)

	return Result{Path: bundlePath, Stats: stats}, nil
}

func (w *Writer) write(bundlePath string, job Job) (stats Stats, err error) {
	out, err := os.Create(bundlePath)
	if err != nil {
		return stats, fmt.Errorf("creating bundle: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing bundle: %w", cerr)
		}
	}()

	level := w.Level
	if level == 0 {
		level = flate.BestCompression
	}

	zw := zip.NewWriter(out)
	zw.RegisterCompressor(zip.Deflate, func(dst io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(dst, level)
	})
	defer func() {
		if cerr := zw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("finalizing bundle: %w", cerr)
		}
	}()

	buf := make([]byte, copyBufferSize)

	for _, dir := range job.Subdirectories {
		root := filepath.Join(job.SourceRoot, dir)
		info, serr := os.Stat(root)
		if errors.Is(serr, os.ErrNotExist) || (serr == nil && !info.IsDir()) {
			w.skip(root)
			continue
		}
		if serr != nil {
			return stats, fmt.Errorf("accessing %q: %w", root, serr)
		}

		// WalkDir does not descend into a symlinked root
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			return stats, fmt.Errorf("resolving %q: %w", root, err)
		}

		if err := w.addTree(zw, resolved, dir, buf, &stats); err != nil {
			return stats, err
		}
	}

	if job.StateFile != "" {
		switch info, serr := os.Stat(job.StateFile); {
		case errors.Is(serr, os.ErrNotExist):
			w.skip(job.StateFile)
		case serr != nil:
			return stats, fmt.Errorf("accessing state file: %w", serr)
		default:
			if err := w.addFile(zw, job.StateFile, StateFileName, info, buf, &stats); err != nil {
				return stats, err
			}
		}
	}

	if err := writeMetadata(zw, Metadata{MedalDir: job.SourceRoot}); err != nil {
		return stats, err
	}

	return stats, nil
}

func (w *Writer) addTree(zw *zip.Writer, root, prefix string, buf []byte, stats *Stats) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		name := path.Join(prefix, filepath.ToSlash(rel))

		// every directory gets an entry, empty ones included
		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		return w.addFile(zw, p, name, info, buf, stats)
	})
}

func (w *Writer) addFile(zw *zip.Writer, src, name string, info fs.FileInfo, buf []byte, stats *Stats) error {
	fileStart := w.clock()

	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}
	defer f.Close()

	hdr, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("building header for %q: %w", src, err)
	}
	hdr.Name = name
	hdr.Method = zip.Deflate

	dst, err := zw.CreateHeader(hdr)
	if err != nil {
		return fmt.Errorf("adding %q: %w", name, err)
	}

	n, err := io.CopyBuffer(dst, f, buf)
	if err != nil {
		return fmt.Errorf("writing %q: %w", name, err)
	}

	stats.Files++
	stats.Bytes += n

	if w.OnEntry != nil {
		w.OnEntry(Entry{Name: name, Size: n, Elapsed: w.clock().Sub(fileStart)})
	}
	return nil
}

func (w *Writer) skip(p string) {
	if w.OnSkip != nil {
		w.OnSkip(p)
	}
}

func (w *Writer) clock() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}
