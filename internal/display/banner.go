package display

import (
	"io"

	"github.com/backmassage/hevcshrink/internal/term"
)

const banner = ` _                        _          _       _
| |__   _____   _____ ___| |__  _ __(_)_ __ | | __
| '_ \ / _ \ \ / / __/ __| '_ \| '__| | '_ \| |/ /
| | | |  __/\ V / (__\__ \ | | | |  | | | | |   <
|_| |_|\___| \_/ \___|___/_| |_|_|  |_|_| |_|_|\_\
`

// PrintBanner writes the ASCII art banner to w, in magenta when colours are enabled.
func PrintBanner(w io.Writer) {
	_, _ = term.Magenta.Fprint(w, banner)
	_, _ = io.WriteString(w, "\n")
}
