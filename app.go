package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"medal-backup/archive"
	"medal-backup/scanner"
	"medal-backup/style"
)

// Main application object
type App struct {
	cfg     *Config
	in      *bufio.Reader
	locator scanner.Locator
	home    string
}

// MAIN APP INIT
func NewApp(cfg *Config, in io.Reader) *App {
	home, _ := os.UserHomeDir()
	return &App{
		cfg:     cfg,
		in:      bufio.NewReader(in),
		locator: scanner.Native{},
		home:    home,
	}
}

// Run asks for the operation and carries it out.
func (app *App) Run() error {
	mode, err := app.ask("Do you want to (1) backup or (2) restore? (Enter 1 or 2): ")
	if err != nil {
		return err
	}

	switch mode {
	case "1":
		return app.backup()
	case "2":
		return app.restore()
	default:
		return fmt.Errorf("%w: %q", errInvalidChoice, mode)
	}
}

//////////////  BACKUP  ///////////////////////////////////////////////////////

func (app *App) backup() error {
	job, err := app.resolveBackupJob()
	if err != nil {
		return err
	}

	app.review(job)

	_, err = app.runBackup(job)
	return err
}

// resolveBackupJob fills in everything the configuration leaves open.
// Nothing is written to disk here.
func (app *App) resolveBackupJob() (archive.Job, error) {
	source := app.cfg.MedalClipsPath
	if source == "" {
		var err error
		if source, err = app.chooseSource(); err != nil {
			return archive.Job{}, err
		}
	}

	dest := app.cfg.BackupDir
	if dest == "" {
		var err error
		if dest, err = app.ask("Please enter the backup directory path: "); err != nil {
			return archive.Job{}, err
		}
	}

	return app.buildJob(source, dest)
}

// configuredJob builds a job from configuration alone, for unattended runs.
func (app *App) configuredJob() (archive.Job, error) {
	if app.cfg.MedalClipsPath == "" || app.cfg.BackupDir == "" {
		return archive.Job{}, fmt.Errorf("%q and %q must be set in the config file", "medalClipsPath", "backupDir")
	}
	return app.buildJob(app.cfg.MedalClipsPath, app.cfg.BackupDir)
}

func (app *App) buildJob(source, dest string) (archive.Job, error) {
	sourceRoot, err := resolvePath(source)
	if err != nil {
		return archive.Job{}, fmt.Errorf("Medal directory: %w", err)
	}
	destRoot, err := resolvePath(dest)
	if err != nil {
		return archive.Job{}, fmt.Errorf("backup directory: %w", err)
	}
	state, err := app.cfg.stateFile()
	if err != nil {
		return archive.Job{}, err
	}

	return archive.Job{
		SourceRoot:      sourceRoot,
		DestinationRoot: destRoot,
		Subdirectories:  app.cfg.Subdirectories(),
		StateFile:       state,
	}, nil
}

// chooseSource asks for the Medal directory, either typed in or discovered.
func (app *App) chooseSource() (string, error) {
	choice, err := app.choose("Medal directory is not configured. (1) enter the path manually or (2) search for it? (Enter 1 or 2): ", 2)
	if err != nil {
		return "", err
	}
	if choice == 1 {
		return app.ask("Please enter the Medal clips directory path: ")
	}

	style.Plain("Searching for %q directories, this may take a while... ", scanner.TargetName)
	found, err := scanner.Scan(app.locator, app.home, scanner.TargetName)
	if err != nil {
		style.PlainLn("")
		return "", fmt.Errorf("searching for Medal directory: %w", err)
	}
	style.Ok("")

	if len(found) == 0 {
		style.WarnLite("No %q directory found.", scanner.TargetName)
		return app.ask("Please enter the Medal clips directory path: ")
	}

	for i, dir := range found {
		style.Sub("  [%d] %s", i+1, dir)
	}
	selected, err := app.choose(fmt.Sprintf("Select the Medal directory (1-%d): ", len(found)), len(found))
	if err != nil {
		return "", err
	}
	return found[selected-1], nil
}

// REVIEW BACKUP CONFIGURATION BEFORE PROCEEDING
func (app *App) review(job archive.Job) {
	style.PlainLn("")
	style.Signature("========  Backup Configuration Review  ========")
	if app.cfg.path != "" {
		style.PlainLn("Config file: %s", app.cfg.path)
	}
	style.PlainLn("Medal directory: %s", job.SourceRoot)
	style.PlainLn("Backup directory: %s", job.DestinationRoot)
	style.PlainLn("State file: %s", job.StateFile)
	style.PlainLn("Directories: %s", strings.Join(job.Subdirectories, ", "))
	if app.cfg.BackupsToKeep > 0 {
		style.PlainLn("Backups to keep: %d", app.cfg.BackupsToKeep)
	}
	if app.cfg.MinFreeSpace != "" {
		style.PlainLn("Minimum required free space: %s", app.cfg.MinFreeSpace)
	}
	style.PlainLn("")
}

// EXECUTE BACKUP
func (app *App) runBackup(job archive.Job) (archive.Result, error) {
	if err := checkFreeSpace(job.DestinationRoot, app.cfg.minFreeSpaceParsed); err != nil {
		return archive.Result{}, err
	}

	w := &archive.Writer{
		OnEntry: func(e archive.Entry) {
			style.Sub("Backing up: %s (%s, %s)", e.Name, humanize.Bytes(uint64(e.Size)), e.Elapsed.Round(time.Millisecond))
		},
		OnSkip: func(path string) {
			style.Warn("%s does not exist and will be skipped.", path)
		},
	}

	res, err := w.Backup(job)
	if err != nil {
		return res, fmt.Errorf("backup failed: %w", err)
	}

	style.Success("Backup completed successfully. The backup file is located at: %s", res.Path)
	style.PlainLn("Total files: %d", res.Stats.Files)
	style.PlainLn("Total size: %s", humanize.Bytes(uint64(res.Stats.Bytes)))
	style.PlainLn("Total time: %.2f seconds", res.Stats.Seconds())

	if removed, err := pruneBundles(job.DestinationRoot, app.cfg.BackupsToKeep); err != nil {
		style.WarnLite("Failed to cleanup old backups: %v", err)
	} else {
		for _, p := range removed {
			style.InfoLite("Removed old backup: %s", p)
		}
	}

	return res, nil
}

//////////////  RESTORE  //////////////////////////////////////////////////////

func (app *App) restore() error {
	job, err := app.resolveRestoreJob()
	if err != nil {
		return err
	}

	r := &archive.Restorer{
		OnCopy: func(name, dest string) {
			style.Sub("Restored: %s -> %s", name, dest)
		},
		OnSkip: func(path string) {
			style.Warn("%s is not in the backup and will be skipped.", path)
		},
	}

	style.PlainLn("Extracting %q to %q...", job.Bundle, job.ScratchDir)
	res, err := r.Restore(job)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	style.Success("Restore completed successfully to: %s", res.SourceRoot)
	style.PlainLn("Total files: %d", res.Files)
	style.PlainLn("Total size: %s", humanize.Bytes(uint64(res.Bytes)))
	return nil
}

func (app *App) resolveRestoreJob() (archive.RestoreJob, error) {
	answer, err := app.ask("Please enter the path of the backup file to restore: ")
	if err != nil {
		return archive.RestoreJob{}, err
	}
	bundle, err := resolvePath(answer)
	if err != nil {
		return archive.RestoreJob{}, fmt.Errorf("backup file: %w", err)
	}

	scratchRoot := filepath.Dir(bundle)
	if app.cfg.BackupDir != "" {
		if scratchRoot, err = resolvePath(app.cfg.BackupDir); err != nil {
			return archive.RestoreJob{}, fmt.Errorf("backup directory: %w", err)
		}
	}

	state, err := app.cfg.stateFile()
	if err != nil {
		return archive.RestoreJob{}, err
	}

	return archive.RestoreJob{
		Bundle:         bundle,
		ScratchDir:     filepath.Join(scratchRoot, archive.ScratchDirName),
		StateFile:      state,
		Subdirectories: app.cfg.Subdirectories(),
	}, nil
}
