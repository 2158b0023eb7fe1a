package ffmpeg

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/backmassage/hevcshrink/internal/display"
)

// maxProgressBuffer bounds the unmatched stderr kept between chunks.
const maxProgressBuffer = 64 << 10

// reProgress matches one stats sample. The gap may not cross a line or
// carriage return, so time and speed always come from the same sample.
// ffmpeg prints whole speeds without a fraction ("speed=   2x").
var reProgress = regexp.MustCompile(`time=(\d+):(\d+):(\d+)[^\r\n]*?speed=\s*(\d+)(?:\.(\d+))?`)

// Timestamp is an encoder position, compared hour, then minute, then second.
type Timestamp struct {
	H, M, S uint64
}

// After reports whether t is lexicographically greater than o.
func (t Timestamp) After(o Timestamp) bool {
	if t.H != o.H {
		return t.H > o.H
	}
	if t.M != o.M {
		return t.M > o.M
	}
	return t.S > o.S
}

func (t Timestamp) String() string { return display.FormatClock(t.H, t.M, t.S) }

// Progress is one parsed stats sample.
type Progress struct {
	Time  Timestamp
	Speed string // e.g. "01.20"
}

// ProgressParser turns a chunked stderr stream into a single, overwritten
// "Progress: HH:MM:SS Speed: NN.NNx" line. The line only moves forward: a
// sample whose timestamp does not advance past the last one shown is
// consumed but not displayed.
type ProgressParser struct {
	w        io.Writer
	buf      []byte
	last     Timestamp
	started  bool
	updates  int
	finished bool
}

// NewProgressParser returns a parser writing its live line to w.
func NewProgressParser(w io.Writer) *ProgressParser {
	return &ProgressParser{w: w}
}

// Start prints the initial "Progress: 00:00:00" line.
func (p *ProgressParser) Start() {
	if p.started {
		return
	}
	p.started = true
	fmt.Fprint(p.w, "Progress: "+p.last.String())
}

// Write feeds a chunk of stderr. It never fails, so the parser can sit
// behind io.Copy or an io.MultiWriter.
func (p *ProgressParser) Write(chunk []byte) (int, error) {
	p.Feed(chunk)
	return len(chunk), nil
}

// Feed appends chunk to the buffer and looks for the newest stats sample in
// it. It returns the sample and true when the displayed line was advanced.
// Whenever a sample is found, everything up to its end is dropped from the
// buffer whether or not it was displayed.
func (p *ProgressParser) Feed(chunk []byte) (Progress, bool) {
	p.Start()
	p.buf = append(p.buf, chunk...)

	matches := reProgress.FindAllSubmatchIndex(p.buf, -1)
	if len(matches) == 0 {
		p.trim()
		return Progress{}, false
	}
	m := matches[len(matches)-1]
	prog := Progress{
		Time: Timestamp{
			H: p.number(m[2], m[3]),
			M: p.number(m[4], m[5]),
			S: p.number(m[6], m[7]),
		},
		Speed: padLeft(string(p.buf[m[8]:m[9]]), 2) + "." + padRight(p.group(m[10], m[11]), 2),
	}
	p.consume(m[1])

	if !prog.Time.After(p.last) {
		return prog, false
	}
	p.last = prog.Time
	p.updates++
	fmt.Fprintf(p.w, "\rProgress: %s Speed: %sx", prog.Time, prog.Speed)
	return prog, true
}

// Finish terminates the live line with a newline. Safe to call more than once.
func (p *ProgressParser) Finish() {
	if p.finished {
		return
	}
	p.finished = true
	p.Start()
	fmt.Fprintln(p.w)
}

// group returns buf[start:end], or "" for an optional group that did not match.
func (p *ProgressParser) group(start, end int) string {
	if start < 0 {
		return ""
	}
	return string(p.buf[start:end])
}

func (p *ProgressParser) number(start, end int) uint64 {
	n, err := strconv.ParseUint(string(p.buf[start:end]), 10, 64)
	if err != nil {
		return 0 // only on overflow; \d+ guarantees digits
	}
	return n
}

// consume drops buf[:end], keeping any partial sample that follows.
func (p *ProgressParser) consume(end int) {
	rest := len(p.buf) - end
	copy(p.buf, p.buf[end:])
	p.buf = p.buf[:rest]
	p.trim()
}

// trim keeps at most maxProgressBuffer of the newest bytes.
func (p *ProgressParser) trim() {
	if over := len(p.buf) - maxProgressBuffer; over > 0 {
		copy(p.buf, p.buf[over:])
		p.buf = p.buf[:maxProgressBuffer]
	}
}

func padLeft(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat("0", n-len(s))
}
