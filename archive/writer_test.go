package archive

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func bundleContents(t *testing.T, bundle string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(bundle)
	require.NoError(t, err)
	defer zr.Close()

	out := map[string]string{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		out[f.Name] = string(data)
	}
	return out
}

func TestBundleName(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 45, 123000000, time.UTC)
	assert.Equal(t, "Medal_Backup_2024_05_01T12_30_45_123Z.zip", BundleName(ts))
	assert.True(t, IsBundleName(BundleName(ts)))
	assert.False(t, IsBundleName("notes.zip"))
	assert.False(t, IsBundleName("Medal_Backup_2024.tar"))
	assert.False(t, IsBundleName("Medal_Backup_old-copy.zip"))
	assert.False(t, IsBundleName("Medal_Backup_2024-05-01T12:30:45.123Z.zip"))
	assert.False(t, IsBundleName("Medal_Backup_2024_13_01T12_30_45_123Z.zip"))

	parsed, ok := ParseBundleName(BundleName(ts))
	require.True(t, ok)
	assert.True(t, ts.Equal(parsed))
}

func TestBackupWritesConfiguredSubdirectories(t *testing.T) {
	src := t.TempDir()
	dest := filepath.Join(t.TempDir(), "nested", "backups")
	state := filepath.Join(t.TempDir(), "clips.json")

	writeFiles(t, src, map[string]string{
		"Clips/a.mp4":             "clip-a",
		"Clips/2024/b.mp4":        "clip-bb",
		".Thumbnails/a.jpg":       "thumb",
		"Screenshots/s.png":       "shot",
		"Other/ignored.txt":       "nope",
		"top-level-ignored.txt":   "nope",
		"Clips/deep/er/c.mp4":     "c",
		"Edits/project/edit.json": "{}",
	})
	require.NoError(t, os.WriteFile(state, []byte(`{"clips":[]}`), 0644))

	var entries []Entry
	var skipped []string
	w := &Writer{
		OnEntry: func(e Entry) { entries = append(entries, e) },
		OnSkip:  func(p string) { skipped = append(skipped, p) },
	}

	res, err := w.Backup(Job{
		SourceRoot:      src,
		DestinationRoot: dest,
		Subdirectories:  DefaultSubdirectories,
		StateFile:       state,
	})
	require.NoError(t, err)

	assert.Equal(t, dest, filepath.Dir(res.Path))
	assert.True(t, IsBundleName(filepath.Base(res.Path)))

	got := bundleContents(t, res.Path)
	assert.Equal(t, map[string]string{
		"Clips/a.mp4":             "clip-a",
		"Clips/2024/b.mp4":        "clip-bb",
		"Clips/deep/er/c.mp4":     "c",
		".Thumbnails/a.jpg":       "thumb",
		"Screenshots/s.png":       "shot",
		"Edits/project/edit.json": "{}",
		StateFileName:             `{"clips":[]}`,
		MetadataFileName:          metadataJSON(t, src),
	}, got)

	// editor does not exist in the source tree
	assert.Equal(t, []string{filepath.Join(src, "editor")}, skipped)

	// state file is counted, the metadata record is not
	assert.Equal(t, 7, res.Stats.Files)
	assert.Len(t, entries, 7)
	var total int64
	for _, e := range entries {
		total += e.Size
	}
	assert.Equal(t, total, res.Stats.Bytes)
	assert.Equal(t, int64(len("clip-a")+len("clip-bb")+len("c")+len("thumb")+len("shot")+len("{}")+len(`{"clips":[]}`)), res.Stats.Bytes)
}

func metadataJSON(t *testing.T, root string) string {
	t.Helper()
	data, err := json.Marshal(Metadata{MedalDir: root})
	require.NoError(t, err)
	return string(data)
}

func TestBackupWalksSubdirectoriesInOrder(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"Screenshots/s.png": "s",
		"Clips/c.mp4":       "c",
		"extra/x.bin":       "x",
	})

	var names []string
	w := &Writer{OnEntry: func(e Entry) { names = append(names, e.Name) }}

	_, err := w.Backup(Job{
		SourceRoot:      src,
		DestinationRoot: t.TempDir(),
		Subdirectories:  []string{"Screenshots", "extra", "Clips"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Screenshots/s.png", "extra/x.bin", "Clips/c.mp4"}, names)
}

func TestBackupMissingStateFileIsSkipped(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"Clips/c.mp4": "c"})
	missing := filepath.Join(t.TempDir(), "clips.json")

	var skipped []string
	w := &Writer{OnSkip: func(p string) { skipped = append(skipped, p) }}

	res, err := w.Backup(Job{
		SourceRoot:      src,
		DestinationRoot: t.TempDir(),
		Subdirectories:  []string{"Clips"},
		StateFile:       missing,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, skipped)
	assert.Equal(t, 1, res.Stats.Files)

	got := bundleContents(t, res.Path)
	keys := make([]string, 0, len(got))
	for k := range got {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"Clips/c.mp4", MetadataFileName}, keys)
}

func TestBackupFailsWhenDestinationIsAFile(t *testing.T) {
	src := t.TempDir()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	w := &Writer{}
	_, err := w.Backup(Job{SourceRoot: src, DestinationRoot: blocker})
	require.Error(t, err)
}

func TestBackupReportsElapsedFromClock(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	w := &Writer{now: func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}}

	res, err := w.Backup(Job{SourceRoot: t.TempDir(), DestinationRoot: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, BundleName(base), filepath.Base(res.Path))
	assert.Equal(t, 1.0, res.Stats.Seconds())
}

func TestBackupFollowsSymlinkedSubdirectory(t *testing.T) {
	src := t.TempDir()
	elsewhere := t.TempDir()
	writeFiles(t, elsewhere, map[string]string{
		"a.mp4":     "clip-a",
		"sub/b.mp4": "clip-b",
	})
	if err := os.Symlink(elsewhere, filepath.Join(src, "Clips")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	var skipped []string
	w := &Writer{OnSkip: func(p string) { skipped = append(skipped, p) }}
	res, err := w.Backup(Job{
		SourceRoot:      src,
		DestinationRoot: t.TempDir(),
		Subdirectories:  []string{"Clips"},
	})
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, 2, res.Stats.Files)

	got := bundleContents(t, res.Path)
	assert.Equal(t, "clip-a", got["Clips/a.mp4"])
	assert.Equal(t, "clip-b", got["Clips/sub/b.mp4"])
}

func TestBackupRecordsDirectories(t *testing.T) {
	src := t.TempDir()
	writeFiles(t, src, map[string]string{"Clips/a.mp4": "a"})
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Edits", "empty"), 0755))

	res, err := (&Writer{}).Backup(Job{
		SourceRoot:      src,
		DestinationRoot: t.TempDir(),
		Subdirectories:  []string{"Clips", "Edits"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Files)

	zr, err := zip.OpenReader(res.Path)
	require.NoError(t, err)
	defer zr.Close()

	var dirs []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			dirs = append(dirs, f.Name)
		}
	}
	assert.Equal(t, []string{"Clips/", "Edits/", "Edits/empty/"}, dirs)
}
