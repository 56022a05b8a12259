// Package fsutil holds the small filesystem primitives the stores share:
// crash-safe replacement of a file and no-clobber moves.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// ErrExists is returned by MoveNoClobber when the destination is taken.
var ErrExists = errors.New("destination exists")

// WriteFileAtomic writes data to path by writing to a temp file in the same
// directory, fsyncing, and then renaming into place. Missing parent
// directories are created with dirPerm.
//
// If any step fails the previous contents of path are left untouched.
func WriteFileAtomic(path string, data []byte, perm, dirPerm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	ok := false
	defer func() {
		if !ok {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// Windows cannot rename over an existing destination.
		if runtime.GOOS != "windows" || !replaceOnWindows(tmpPath, path) {
			return fmt.Errorf("rename %s -> %s: %w", tmpPath, path, err)
		}
	}
	ok = true
	syncDir(dir)
	return nil
}

func replaceOnWindows(tmpPath, path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}
	if err := os.Remove(path); err != nil {
		return false
	}
	return os.Rename(tmpPath, path) == nil
}

// MoveNoClobber renames oldPath to newPath, failing with ErrExists instead of
// overwriting. A hard link is attempted first so the check and the move happen
// in one filesystem operation; filesystems without hard links fall back to
// stat + rename.
func MoveNoClobber(oldPath, newPath string, dirPerm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(newPath), dirPerm); err != nil {
		return fmt.Errorf("create dir for %s: %w", newPath, err)
	}

	linkErr := os.Link(oldPath, newPath)
	if linkErr == nil {
		if err := os.Remove(oldPath); err != nil {
			_ = os.Remove(newPath)
			return fmt.Errorf("remove %s after link: %w", oldPath, err)
		}
		syncDir(filepath.Dir(newPath))
		return nil
	}
	if errors.Is(linkErr, fs.ErrExist) {
		return fmt.Errorf("move %s -> %s: %w", oldPath, newPath, ErrExists)
	}
	if errors.Is(linkErr, fs.ErrNotExist) {
		return fmt.Errorf("move %s: %w", oldPath, linkErr)
	}

	if Exists(newPath) {
		return fmt.Errorf("move %s -> %s: %w", oldPath, newPath, ErrExists)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("move %s -> %s: %w", oldPath, newPath, err)
	}
	syncDir(filepath.Dir(newPath))
	return nil
}

// CreateExclusive writes data to a new file at path. It fails with ErrExists
// if path is already present and never leaves a partially written file
// behind under that name.
func CreateExclusive(path string, data []byte, perm, dirPerm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}
	if Exists(path) {
		return fmt.Errorf("create %s: %w", path, ErrExists)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".new-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	if werr == nil {
		werr = tmp.Chmod(perm)
	}
	if werr == nil {
		werr = tmp.Sync()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, werr)
	}

	if err := MoveNoClobber(tmpPath, path, dirPerm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

// Exists reports whether path exists. Errors other than "not exist" count as
// existing so callers never overwrite something they could not inspect.
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil || !errors.Is(err, fs.ErrNotExist)
}

// BestEffortBackup tries to write a `.bak` alongside path with the current
// contents, without failing the calling operation.
func BestEffortBackup(path string, perm os.FileMode) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = WriteFileAtomic(path+".bak", data, perm, 0o700)
}

func syncDir(dir string) {
	f, err := os.Open(dir)
	if err != nil {
		return
	}
	defer f.Close()
	_ = f.Sync()
}
