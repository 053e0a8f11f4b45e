package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LineParser consumes lines one at a time. RDLineParser implements it.
type LineParser interface {
	ParseLine(line string)
}

// NearMissHandler receives lines that look like RD records but do not
// parse. logging.UnmatchedTracker implements it.
type NearMissHandler interface {
	HandleLine(line string)
}

// SampleCallback is called for each successfully parsed line.
type SampleCallback func(CostSample)

// nearMissMarker is the token that makes a rejected line worth reporting.
const nearMissMarker = "IntraCost"

// RDLineParser parses intra-cost lines and forwards matches to a callback.
//
// Not safe for concurrent use; the analysis is a single pass.
type RDLineParser struct {
	callback SampleCallback
	nearMiss NearMissHandler

	linesProcessed int64
	linesMatched   int64
}

// NewRDLineParser creates a parser. nearMiss may be nil.
func NewRDLineParser(cb SampleCallback, nearMiss NearMissHandler) *RDLineParser {
	return &RDLineParser{
		callback: cb,
		nearMiss: nearMiss,
	}
}

// ParseLine implements the LineParser interface.
func (p *RDLineParser) ParseLine(line string) {
	p.linesProcessed++

	sample, ok := Parse(line)
	if !ok {
		if p.nearMiss != nil && strings.Contains(line, nearMissMarker) {
			p.nearMiss.HandleLine(line)
		}
		return
	}

	p.linesMatched++
	if p.callback != nil {
		p.callback(sample)
	}
}

// Stats returns (processed, matched, skipped) line counts.
func (p *RDLineParser) Stats() (processed, matched, skipped int64) {
	return p.linesProcessed, p.linesMatched, p.linesProcessed - p.linesMatched
}

const (
	// MaxLineLength bounds a single dump line.
	MaxLineLength = 1024 * 1024

	// DefaultProgressInterval is how many lines pass between progress logs.
	DefaultProgressInterval = 1_000_000
)

// Reader streams lines from an io.Reader into a LineParser.
//
// Lines are handed over one at a time, so memory stays bounded by what the
// parser keeps rather than by the size of the dump.
type Reader struct {
	logger           *slog.Logger
	progressInterval int64

	bytesRead int64
	linesRead int64
}

// NewReader creates a reader. A nil logger discards progress logs.
func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Reader{
		logger:           logger,
		progressInterval: DefaultProgressInterval,
	}
}

// Run reads src to EOF and feeds every line to p.
//
// Line terminators (\n or \r\n) are stripped before parsing but counted
// in the bytes read, so a full pass reports the size of the input.
func (r *Reader) Run(src io.Reader, p LineParser) error {
	scanner := bufio.NewScanner(src)

	buf := make([]byte, 64*1024)
	scanner.Buffer(buf, MaxLineLength)
	scanner.Split(scanRawLines)

	for scanner.Scan() {
		raw := scanner.Bytes()
		r.linesRead++
		r.bytesRead += int64(len(raw))

		p.ParseLine(string(trimLineEnd(raw)))

		if r.progressInterval > 0 && r.linesRead%r.progressInterval == 0 {
			r.logger.Debug("parse_progress", "lines_read", r.linesRead, "bytes_read", r.bytesRead)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", r.linesRead+1, err)
	}
	return nil
}

// scanRawLines is bufio.ScanLines without dropping the terminator.
func scanRawLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// trimLineEnd drops a trailing \n and then a trailing \r.
func trimLineEnd(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'})
}

// Stats returns (bytesRead, linesRead).
func (r *Reader) Stats() (bytesRead, linesRead int64) {
	return r.bytesRead, r.linesRead
}
