package io

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// CreateFS defines a file system interface that supports creating files and directories.
// It extends basic file system operations with write capabilities for saving
// assembled program images.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

// DirFS is a CreateFS rooted at a host directory.
type DirFS string

var _ CreateFS = DirFS("")

func (dir DirFS) join(op string, name string) (full string, err error) {
	if !fs.ValidPath(name) {
		err = &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
		return
	}

	full = filepath.Join(string(dir), filepath.FromSlash(name))
	return
}

func (dir DirFS) Sub(name string) (sub CreateFS, err error) {
	full, err := dir.join("sub", name)
	if err != nil {
		return
	}

	sub = DirFS(full)
	return
}

func (dir DirFS) Create(name string) (file io.WriteCloser, err error) {
	full, err := dir.join("create", name)
	if err != nil {
		return
	}

	return os.Create(full)
}

func (dir DirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	full, err := dir.join("mkdir", name)
	if err != nil {
		return
	}

	return os.Mkdir(full, filemode)
}

// SaveRom writes an image to a slash separated path, creating any missing
// directories.
func SaveRom(fsys CreateFS, name string, rom *Rom) (err error) {
	dir, base := path.Split(name)
	for _, elem := range strings.Split(dir, "/") {
		if len(elem) == 0 {
			continue
		}
		err = fsys.Mkdir(elem, 0755)
		if err != nil && !errors.Is(err, fs.ErrExist) {
			return
		}
		fsys, err = fsys.Sub(elem)
		if err != nil {
			return
		}
	}

	ouf, err := fsys.Create(base)
	if err != nil {
		return
	}

	_, err = rom.WriteTo(ouf)
	if err != nil {
		ouf.Close()
		return
	}

	return ouf.Close()
}
