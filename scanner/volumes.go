package scanner

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/shirou/gopsutil/v3/disk"
)

// Volumes returns the mountpoints of physical partitions. When the OS
// cannot be queried it falls back to probing common drive letters and
// mount points.
func (Native) Volumes() ([]string, error) {
	parts, err := disk.Partitions(false)
	if err != nil || len(parts) == 0 {
		return probeDrives(), nil
	}

	volumes := make([]string, 0, len(parts))
	for _, p := range parts {
		mount := p.Mountpoint
		if runtime.GOOS == "windows" && len(mount) == 2 && mount[1] == ':' {
			mount += `\`
		}
		volumes = append(volumes, mount)
	}
	return volumes, nil
}

// Provide os-specific common drives or mount points
func probeDrives() []string {
	var drives []string

	switch runtime.GOOS {
	case "windows":
		for _, drive := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
			path := string(drive) + ":\\"
			if _, err := os.Stat(path); err == nil {
				drives = append(drives, path)
			}
		}
	default:
		// Check common mount points
		for _, mountPoint := range []string{"/mnt", "/media", "/Volumes"} {
			if entries, err := os.ReadDir(mountPoint); err == nil {
				for _, entry := range entries {
					if entry.IsDir() {
						drives = append(drives, filepath.Join(mountPoint, entry.Name()))
					}
				}
			}
		}
		// Also check root
		drives = append(drives, "/")
	}

	return drives
}
