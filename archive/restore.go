package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ScratchDirName is the directory a bundle is unpacked into before copying.
const ScratchDirName = "Medal_Restore_Temp"

// RestoreJob describes one restore run.
type RestoreJob struct {
	Bundle         string
	ScratchDir     string
	StateFile      string
	Subdirectories []string
}

// RestoreResult summarises a finished restore.
type RestoreResult struct {
	SourceRoot string
	Restored   []string
	Files      int
	Bytes      int64
}

// Restorer copies a bundle back to the location recorded in its metadata.
type Restorer struct {
	// OnCopy is called once per restored item with its destination path.
	OnCopy func(name, dest string)
	// OnSkip is called for each expected item missing from the bundle.
	OnSkip func(path string)
}

// Restore extracts job.Bundle and copies its contents back. The destination
// root always comes from the bundle metadata. The scratch directory is removed
// only when every step succeeded.
func (r *Restorer) Restore(job RestoreJob) (RestoreResult, error) {
	var res RestoreResult

	if _, err := os.Stat(job.Bundle); err != nil {
		return res, fmt.Errorf("locating bundle: %w", err)
	}

	if err := Extract(job.Bundle, job.ScratchDir); err != nil {
		return res, err
	}

	md, err := ReadMetadata(job.ScratchDir)
	if err != nil {
		return res, err
	}
	res.SourceRoot = md.MedalDir

	stateSrc := filepath.Join(job.ScratchDir, StateFileName)
	switch _, err := os.Stat(stateSrc); {
	case errors.Is(err, os.ErrNotExist):
		r.skip(stateSrc)
	case err != nil:
		return res, fmt.Errorf("accessing extracted state file: %w", err)
	default:
		n, err := copyFile(stateSrc, job.StateFile)
		if err != nil {
			return res, fmt.Errorf("restoring state file: %w", err)
		}
		res.Files++
		res.Bytes += n
		res.Restored = append(res.Restored, StateFileName)
		r.copied(StateFileName, job.StateFile)
	}

	for _, dir := range job.Subdirectories {
		src := filepath.Join(job.ScratchDir, dir)
		info, err := os.Stat(src)
		if errors.Is(err, os.ErrNotExist) || (err == nil && !info.IsDir()) {
			r.skip(src)
			continue
		}
		if err != nil {
			return res, fmt.Errorf("accessing %q: %w", src, err)
		}

		dest := filepath.Join(md.MedalDir, dir)
		files, bytes, err := copyTree(src, dest)
		if err != nil {
			return res, fmt.Errorf("restoring %s: %w", dir, err)
		}
		res.Files += files
		res.Bytes += bytes
		res.Restored = append(res.Restored, dir)
		r.copied(dir, dest)
	}

	if err := os.RemoveAll(job.ScratchDir); err != nil {
		return res, fmt.Errorf("removing scratch directory: %w", err)
	}
	return res, nil
}

func (r *Restorer) skip(p string) {
	if r.OnSkip != nil {
		r.OnSkip(p)
	}
}

func (r *Restorer) copied(name, dest string) {
	if r.OnCopy != nil {
		r.OnCopy(name, dest)
	}
}

// Extract unpacks bundle into dir, replacing anything already there.
// Entries that would land outside dir are rejected.
func Extract(bundle, dir string) error {
	zr, err := zip.OpenReader(bundle)
	if err != nil {
		return fmt.Errorf("opening bundle: %w", err)
	}
	defer zr.Close()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("clearing scratch directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating scratch directory: %w", err)
	}

	root := filepath.Clean(dir) + string(os.PathSeparator)
	for _, f := range zr.File {
		target := filepath.Join(dir, filepath.FromSlash(f.Name))
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("invalid file path in bundle: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) (err error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, rc)
	return err
}
