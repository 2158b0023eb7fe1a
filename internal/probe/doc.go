// Package probe reads a media file's duration through ffprobe. The result is
// informational only: callers log it and carry on when probing fails.
package probe
