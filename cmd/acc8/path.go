package main

import (
	"path/filepath"
)

// splitPath splits a host path into a directory for os.DirFS and a file
// name valid for io/fs.
func splitPath(path string) (dir string, name string) {
	dir, name = filepath.Split(filepath.Clean(path))
	if len(dir) == 0 {
		dir = "."
	}
	return
}
