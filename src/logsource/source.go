// Package logsource supplies ordered log lines from the kernel ring
// buffer and the system journal. All blocking I/O lives here, at the
// pipeline boundary; the core stages never block.
package logsource

import (
	"bufio"
	"io"

	"sysdoctor-agent/src/contracts"
)

// Source is an iterator of log lines. Next returns io.EOF when the
// stream is exhausted; a source cut short simply ends early and the
// pipeline finalizes on the prefix it received.
type Source interface {
	Next() (contracts.LogLine, error)
	Close() error
}

// ReaderSource adapts any io.Reader into a Source. Used for analyzing
// saved log files and in tests.
type ReaderSource struct {
	scanner *bufio.Scanner
	origin  contracts.LogOrigin
	closer  io.Closer
}

// NewReaderSource wraps r. Lines are parsed with the same timestamp and
// framing rules as the live sources for the given origin.
func NewReaderSource(r io.Reader, origin contracts.LogOrigin) *ReaderSource {
	sc := bufio.NewScanner(r)
	// Kernel lines can exceed bufio's default token size when a driver
	// dumps register state.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	src := &ReaderSource{scanner: sc, origin: origin}
	if c, ok := r.(io.Closer); ok {
		src.closer = c
	}
	return src
}

// Next returns the next parsed line or io.EOF.
func (s *ReaderSource) Next() (contracts.LogLine, error) {
	for s.scanner.Scan() {
		line := ParseLine(s.scanner.Text(), s.origin)
		if line.Raw == "" {
			continue
		}
		return line, nil
	}
	if err := s.scanner.Err(); err != nil {
		return contracts.LogLine{}, err
	}
	return contracts.LogLine{}, io.EOF
}

// Close closes the underlying reader when it is closeable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// MultiSource concatenates sources in order: the kernel snapshot first,
// then the journal range, matching the engine's two log origins.
type MultiSource struct {
	sources []Source
	current int
}

// NewMultiSource concatenates the given sources.
func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

// Next drains each source in turn.
func (m *MultiSource) Next() (contracts.LogLine, error) {
	for m.current < len(m.sources) {
		line, err := m.sources[m.current].Next()
		if err == io.EOF {
			m.current++
			continue
		}
		return line, err
	}
	return contracts.LogLine{}, io.EOF
}

// Close closes every underlying source, returning the first error.
func (m *MultiSource) Close() error {
	var first error
	for _, s := range m.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Collect drains a source into a slice. Intended for the ingest agent's
// batching; the streaming pipeline should use Next directly.
func Collect(src Source) ([]contracts.LogLine, error) {
	var lines []contracts.LogLine
	for {
		line, err := src.Next()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}
