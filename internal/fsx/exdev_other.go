//go:build !unix

package fsx

// Non-unix platforms report cross-volume moves through their own error
// codes; Replace surfaces them unchanged.
func isEXDEV(error) bool { return false }
