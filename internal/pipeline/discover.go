package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/hevcshrink/internal/ffmpeg"
	"github.com/backmassage/hevcshrink/internal/ledger"
)

// Source extensions (lowercase, with leading dot).
var sourceExtensions = []string{".mp4", ".mov"}

// Eligible reports whether name is a source file: it ends in a source
// extension (case-insensitive) and does not carry the output marker.
func Eligible(name string) bool {
	lower := strings.ToLower(name)
	matched := false
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext) {
			matched = true
			break
		}
	}
	return matched && !HasOutputMarker(name)
}

// HasOutputMarker reports whether name looks like an encoder output, i.e.
// ends in <source-ext> + [ffmpeg.OutputMarker].
func HasOutputMarker(name string) bool {
	lower := strings.ToLower(name)
	marker := strings.ToLower(ffmpeg.OutputMarker)
	for _, ext := range sourceExtensions {
		if strings.HasSuffix(lower, ext+marker) {
			return true
		}
	}
	return false
}

// Entry is one candidate handed to the visitor.
type Entry struct {
	Path string
	Info os.FileInfo
}

// Walker enumerates candidates below a root. Problems with individual
// directories or entries are reported through OnSkip and never stop the walk.
type Walker struct {
	// OnSkip is called for every entry that could not be considered.
	OnSkip func(path string, reason ledger.Reason, err error)
	// OnIgnore is called for names that are not source files.
	OnIgnore func(path string)

	readDir func(string) ([]os.DirEntry, error)
	stat    func(string) (os.FileInfo, error)
}

// Walk calls visit for every eligible regular file under root. A root that
// is itself a regular file is visited directly without the extension check,
// but encoder outputs are still refused. The walk stops at the first error
// returned by visit and returns it.
func (w *Walker) Walk(root string, visit func(Entry) error) error {
	stat := w.stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(root)
	if err != nil {
		w.skip(root, ledger.Metadata, err)
		return nil
	}

	switch {
	case info.Mode().IsRegular():
		if HasOutputMarker(info.Name()) {
			w.skip(root, ledger.NotEligible, fmt.Errorf("name ends in %s", ffmpeg.OutputMarker))
			return nil
		}
		return visit(Entry{Path: root, Info: info})
	case info.IsDir():
		return w.walkDirs(root, visit)
	default:
		w.skip(root, ledger.NotRegular, nil)
		return nil
	}
}

// walkDirs drains a stack of pending directories. Subdirectories are pushed
// in reverse so they pop in directory-listing order.
func (w *Walker) walkDirs(root string, visit func(Entry) error) error {
	readDir := w.readDir
	if readDir == nil {
		readDir = os.ReadDir
	}

	pending := []string{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := readDir(dir)
		if err != nil {
			w.skip(dir, ledger.ReadDir, err)
			continue
		}

		var subdirs []string
		for _, d := range entries {
			path := filepath.Join(dir, d.Name())
			if d.IsDir() {
				subdirs = append(subdirs, path)
				continue
			}
			if !Eligible(d.Name()) {
				if w.OnIgnore != nil {
					w.OnIgnore(path)
				}
				continue
			}
			info, err := d.Info()
			if err != nil {
				w.skip(path, ledger.Metadata, err)
				continue
			}
			if !info.Mode().IsRegular() {
				w.skip(path, ledger.NotRegular, fmt.Errorf("mode %s", info.Mode().Type()))
				continue
			}
			if err := visit(Entry{Path: path, Info: info}); err != nil {
				return err
			}
		}
		for i := len(subdirs) - 1; i >= 0; i-- {
			pending = append(pending, subdirs[i])
		}
	}
	return nil
}

func (w *Walker) skip(path string, reason ledger.Reason, err error) {
	if w.OnSkip != nil {
		w.OnSkip(path, reason, err)
	}
}
