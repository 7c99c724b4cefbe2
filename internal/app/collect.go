package app

import (
	"io/fs"
	"path/filepath"

	"picpp/internal/domain"
	appErrors "picpp/internal/errors"
)

// Collect expands command line arguments into an ordered list of absolute
// input paths. Files are kept as given; directories contribute their image
// files in lexical order, descending into subdirectories only when
// recursive is set. Error directories from earlier runs are never scanned.
func Collect(fsys FileSystem, args []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		files = append(files, path)
	}

	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.InvalidInput, "abs", arg, err)
		}
		info, err := fsys.Stat(abs)
		if err != nil {
			return nil, appErrors.Wrap(appErrors.NotFound, "stat", abs, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}

		err = fsys.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				if path == abs {
					return nil
				}
				if !recursive || d.Name() == domain.ErrorDirName {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && domain.IsImagePath(path) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, appErrors.Wrap(appErrors.IOFailure, "walk", abs, err)
		}
	}

	if len(files) == 0 {
		return nil, appErrors.New(appErrors.InvalidInput, "collect", "", "no image files found")
	}
	return files, nil
}
