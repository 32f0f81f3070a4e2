package project

import (
	"io"
	"os"
	"path/filepath"

	appErr "github.com/amylase/rime-judge/pkg/errors"
)

// PrepareCache materializes the judging copy of a contest project.
// The source project is copied into cacheDir/project on first boot so
// judging artifacts never touch the pristine project; later boots
// reuse the existing copy, which is what preserves packaged solutions
// across restarts. Returns the path of the judging copy.
func PrepareCache(projectDir, cacheDir string) (string, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", appErr.Wrapf(err, appErr.ProjectLayoutError, "create cache directory failed")
	}
	target := filepath.Join(cacheDir, "project")
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	if err := copyTree(projectDir, target, cacheDir); err != nil {
		return "", appErr.Wrapf(err, appErr.ProjectLayoutError, "copy project failed")
	}
	return target, nil
}

// copyTree copies src into dst, skipping the skip directory (the cache
// dir may live inside the project).
func copyTree(src, dst, skip string) error {
	skipAbs, err := filepath.Abs(skip)
	if err != nil {
		return err
	}
	return filepath.WalkDir(src, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		pathAbs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		if pathAbs == skipAbs {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if entry.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		info, err := entry.Info()
		if err != nil {
			return err
		}
		return copyFile(path, target, info.Mode())
	})
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
