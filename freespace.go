package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v3/disk"
)

// checkFreeSpace fails when the volume holding dir has less than required bytes free.
// dir does not need to exist yet; its closest existing parent is measured.
func checkFreeSpace(dir string, required uint64) error {
	if required == 0 {
		return nil
	}

	probe := existingParent(dir)
	usage, err := disk.Usage(probe)
	if err != nil {
		return fmt.Errorf("reading free space for %q: %w", probe, err)
	}

	if usage.Free < required {
		return fmt.Errorf("available free space (%s) is less than required minimum (%s)",
			humanize.Bytes(usage.Free), humanize.Bytes(required))
	}
	return nil
}

func existingParent(p string) string {
	for {
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}
