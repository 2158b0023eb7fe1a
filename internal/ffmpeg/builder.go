package ffmpeg

// OutputMarker is appended to a source file name to form the encoder's
// output name (clip.mp4 -> clip.mp4_x265.mp4). Files carrying it are never
// treated as sources.
const OutputMarker = "_x265.mp4"

// Fixed codec policy.
const (
	VideoCodec = "libx265"
	CRF        = "25"
)

// OutputPath returns the sibling path the encoder writes for input.
func OutputPath(input string) string {
	return input + OutputMarker
}

// Build constructs the complete ffmpeg argument slice, binary first.
//
// -loglevel fatal keeps stderr down to the -stats lines the progress parser
// reads plus any fatal error.
func Build(bin, input, output string) []string {
	args := make([]string, 0, 24)

	// --- Preamble ---
	args = append(args, bin, "-hide_banner", "-nostdin", "-y")
	args = append(args, "-loglevel", "fatal", "-stats")

	// --- Input ---
	args = append(args, "-i", input)

	// --- Video ---
	args = append(args,
		"-c:v", VideoCodec,
		"-crf", CRF,
		"-x265-params", "log-level=fatal",
	)

	// --- Audio ---
	args = append(args, "-c:a", "copy")

	// --- Output ---
	args = append(args, output)
	return args
}
