package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"medal-backup/archive"
)

type bundleFile struct {
	name    string
	created time.Time
}

// pruneBundles removes the oldest bundles in dir so that at most keep remain.
// keep <= 0 keeps everything. Age comes from the timestamp in the bundle name;
// files whose names do not carry one are left alone.
func pruneBundles(dir string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var bundles []bundleFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if created, ok := archive.ParseBundleName(entry.Name()); ok {
			bundles = append(bundles, bundleFile{name: entry.Name(), created: created})
		}
	}

	if len(bundles) <= keep {
		return nil, nil
	}
	sort.Slice(bundles, func(i, j int) bool {
		return bundles[i].created.Before(bundles[j].created)
	})

	var removed []string
	for _, b := range bundles[:len(bundles)-keep] {
		p := filepath.Join(dir, b.name)
		if err := os.Remove(p); err != nil {
			return removed, fmt.Errorf("removing old backup %s: %w", p, err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}
