//go:build !windows

package fsx

// replaceFile relies on rename(2), which atomically replaces dst on the
// same filesystem.
func replaceFile(src, dst string) error {
	return renameFunc(src, dst)
}
