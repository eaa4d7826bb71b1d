// Package scanner locates Medal data directories on the local machine.
package scanner

import (
	"io/fs"
	"path/filepath"
)

// TargetName is the directory name searched for in discovery mode.
const TargetName = "Medal"

// Locator enumerates storage volumes and searches them for directories.
type Locator interface {
	// Volumes returns the root path of every local storage volume.
	Volumes() ([]string, error)
	// FindDirectories returns every directory under root whose base name is name.
	FindDirectories(name, root string) ([]string, error)
}

// SearchRoots lists where Scan looks, in order: the user's home directory,
// its Documents, Downloads and Desktop folders, then every volume root.
func SearchRoots(home string, volumes []string) []string {
	var roots []string
	if home != "" {
		roots = append(roots,
			home,
			filepath.Join(home, "Documents"),
			filepath.Join(home, "Downloads"),
			filepath.Join(home, "Desktop"),
		)
	}
	return append(roots, volumes...)
}

// Scan searches every root from SearchRoots for directories named name.
// Matches from overlapping roots are kept, so a directory may appear twice.
func Scan(loc Locator, home, name string) ([]string, error) {
	volumes, err := loc.Volumes()
	if err != nil {
		return nil, err
	}

	var found []string
	for _, root := range SearchRoots(home, volumes) {
		matches, err := loc.FindDirectories(name, root)
		if err != nil {
			return nil, err
		}
		found = append(found, matches...)
	}
	return found, nil
}

// Native searches the local file system directly.
type Native struct{}

// FindDirectories walks root depth-first. Subtrees that cannot be read are
// skipped, and a match is not descended into.
func (Native) FindDirectories(name, root string) ([]string, error) {
	var found []string

	_ = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && p != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() || p == root {
			return nil
		}
		if d.Name() == name {
			abs, aerr := filepath.Abs(p)
			if aerr != nil {
				abs = p
			}
			found = append(found, abs)
			return filepath.SkipDir
		}
		return nil
	})

	return found, nil
}
