package config

import (
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl2/hcl"
	"github.com/hashicorp/hcl2/hclpack"
	"golang.org/x/crypto/ssh/terminal"
)

// A Loader loads configuration files from .hcl files on disk.
//
// The zero value is ready to load files.
type Loader struct {
	sources map[string][]byte
}

// Root finds the root directory of a project. The returned string is the
// absolute path to the project on disk.
//
// The root directory is determined by the file .rampart/project existing.
// The contents of the file are not significant. Starting from dir, parent
// directories are traversed until the marker is found.
//
// An error is returned if the dir cannot be opened. An empty string is
// returned if no project root was found.
func (l *Loader) Root(dir string) (string, error) {
	if _, err := os.Stat(dir); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		marker := filepath.Join(abs, ".rampart", "project")
		if stat, err := os.Stat(marker); err == nil && !stat.IsDir() {
			return abs, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// Load loads all config files under the given root directory, traversing
// into sub directories, and merges them into a single body.
//
// Files are merged in the order filepath.Walk visits them. Empty files do
// not contribute to the merged body.
func (l *Loader) Load(root string) (*hclpack.Body, hcl.Diagnostics) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".hcl" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, diagErr(err)
	}

	merged := &hclpack.Body{}
	first := true
	for _, path := range paths {
		body, diags := l.parseFile(path)
		if diags.HasErrors() {
			return nil, diags
		}
		if len(body.ChildBlocks) == 0 && len(body.Attributes) == 0 {
			continue
		}
		if first {
			merged.MissingItemRange_ = body.MissingItemRange_
			first = false
		}
		for name, attr := range body.Attributes {
			if merged.Attributes == nil {
				merged.Attributes = make(map[string]hclpack.Attribute)
			}
			merged.Attributes[name] = attr
		}
		merged.ChildBlocks = append(merged.ChildBlocks, body.ChildBlocks...)
	}
	return merged, nil
}

// parseFile reads and packs a single config file. The source bytes are
// retained so diagnostics can quote them, also when packing fails.
func (l *Loader) parseFile(path string) (*hclpack.Body, hcl.Diagnostics) {
	src, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, diagErr(err)
	}
	if l.sources == nil {
		l.sources = make(map[string][]byte)
	}
	l.sources[path] = src
	return hclpack.PackNativeFile(src, path, hcl.Pos{Line: 1, Column: 1})
}

// WriteDiagnostics writes diagnostics as a human readable string to w. It
// should only be used for diagnostics that originate from files loaded by
// Loader.
//
// If a TTY is attached, the output is colorized and wraps at the terminal
// width. Otherwise it wraps at 78 characters without ANSI escape characters.
func (l *Loader) WriteDiagnostics(w io.Writer, diags hcl.Diagnostics) {
	files := make(map[string]*hcl.File, len(l.sources))
	for name, src := range l.sources {
		files[name] = &hcl.File{Bytes: src}
	}
	cols, _, err := terminal.GetSize(0)
	if err != nil {
		cols = 78
	}
	wr := hcl.NewDiagnosticTextWriter(w, files, uint(cols), terminal.IsTerminal(0))
	if err := wr.WriteDiagnostics(diags); err != nil {
		fmt.Fprintln(w, err)
	}
}

// diagErr converts a native error to diagnostics.
func diagErr(err error) hcl.Diagnostics {
	return hcl.Diagnostics{{Severity: hcl.DiagError, Summary: err.Error()}}
}
