package archive

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// copyTree copies the contents of src into dest, creating directories as
// needed and replacing files that already exist.
func copyTree(src, dest string) (files int, bytes int64, err error) {
	if err := os.MkdirAll(dest, 0755); err != nil {
		return 0, 0, err
	}

	err = filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		if !d.Type().IsRegular() {
			return nil
		}

		n, err := copyFile(p, target)
		if err != nil {
			return err
		}
		files++
		bytes += n
		return nil
	})
	return files, bytes, err
}

// copyFile replaces dest with the contents of src atomically.
func copyFile(src, dest string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return 0, err
	}

	f, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if err := atomic.WriteFile(dest, f); err != nil {
		return 0, err
	}
	return info.Size(), nil
}
