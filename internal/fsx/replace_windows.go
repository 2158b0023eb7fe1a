//go:build windows

package fsx

import (
	"os"

	"golang.org/x/sys/windows"
)

// replaceFile uses MoveFileEx so an existing destination is overwritten and
// the move is flushed before returning.
func replaceFile(src, dst string) error {
	from, err := windows.UTF16PtrFromString(src)
	if err != nil {
		return err
	}
	to, err := windows.UTF16PtrFromString(dst)
	if err != nil {
		return err
	}
	if err := windows.MoveFileEx(from, to, windows.MOVEFILE_REPLACE_EXISTING|windows.MOVEFILE_WRITE_THROUGH); err != nil {
		return &os.LinkError{Op: "movefileex", Old: src, New: dst, Err: err}
	}
	return nil
}
