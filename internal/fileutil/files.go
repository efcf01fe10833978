package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// FileExists checks if a file exists at the given path.
//
// Returns true if the file exists, false if it doesn't, and an error if the file's
// existence cannot be determined.
func FileExists(fs afero.Fs, path string) (bool, error) {
	_, err := fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ModTime returns the last-write time of path.
func ModTime(fs afero.Fs, path string) (time.Time, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// RemoveIfExists deletes path, treating a missing file as success.
func RemoveIfExists(fs afero.Fs, path string) error {
	err := fs.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("unable to remove %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes dst through a temporary file in the same directory
// and renames it into place once write returns successfully.
//
// A failed write never leaves a partial file under dst; an existing dst is
// replaced, never appended to.
func WriteFileAtomic(fs afero.Fs, dst string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(dst)
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			_ = fs.Remove(tmpName)
		}
	}()

	if err = write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to close %s: %w", tmpName, err)
	}

	// Rename over an existing file is not portable across afero backends.
	if err = RemoveIfExists(fs, dst); err != nil {
		return err
	}
	if err = fs.Rename(tmpName, dst); err != nil {
		return fmt.Errorf("unable to rename %s to %s: %w", tmpName, dst, err)
	}
	return nil
}
