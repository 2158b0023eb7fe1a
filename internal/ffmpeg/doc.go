// Package ffmpeg builds and runs the single, fixed HEVC encode command and
// turns the encoder's stderr into a live progress line.
//
// The argument skeleton is fixed (libx265, CRF 25, audio copied); there is no
// per-file tuning and no retry. A non-zero exit is reported as [*ExitError]
// with a short hint derived from stderr; an encoder that cannot be started at
// all is reported as [*LaunchError], which callers treat as fatal.
package ffmpeg
