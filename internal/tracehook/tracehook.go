// Package tracehook is the runtime side of printtrace: it formats entry
// events emitted by instrumented code into trace lines.
//
// Every event produces exactly one line and one write to the output. The
// write is serialized with other events, so lines from concurrent threads
// never interleave.
package tracehook

import (
	"io"
	"os"
	"strconv"
	"sync"
)

// OutputEnv names a file trace lines are appended to instead of stderr.
const OutputEnv = "PRINTTRACE_OUTPUT"

// Tracer writes trace lines.
type Tracer struct {
	mu sync.Mutex
	w  io.Writer
}

// New is [Tracer] constructor.
func New(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

// FromEnv creates a tracer writing into the file named by OutputEnv, or into stderr.
func FromEnv() *Tracer {
	path := os.Getenv(OutputEnv)
	if path == "" {
		return New(os.Stderr)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return New(os.Stderr)
	}

	return New(file)
}

// Enter traces an entry with the raw function name.
func (t *Tracer) Enter(name string) {
	t.emit(appendEntering(nil, name))
}

// EnterDemangled traces an entry with either the raw name or a demangled signature.
func (t *Tracer) EnterDemangled(name string, demangled bool) {
	t.emit(appendName(nil, name, demangled))
}

// EnterAt traces an entry with the raw name and its source location.
func (t *Tracer) EnterAt(name, file string, line, column int32) {
	buf := appendEntering(nil, name)
	t.emit(appendLocation(buf, file, line, column))
}

// EnterDemangledAt combines EnterDemangled and EnterAt.
func (t *Tracer) EnterDemangledAt(name string, demangled bool, file string, line, column int32) {
	buf := appendName(nil, name, demangled)
	t.emit(appendLocation(buf, file, line, column))
}

func appendName(buf []byte, name string, demangled bool) []byte {
	if demangled {
		buf = append(buf, "Demangled: "...)
		return append(buf, name...)
	}

	return appendEntering(buf, name)
}

func appendEntering(buf []byte, name string) []byte {
	buf = append(buf, "Entering function: "...)
	return append(buf, name...)
}

func appendLocation(buf []byte, file string, line, column int32) []byte {
	buf = append(buf, " Location: "...)
	buf = append(buf, file...)
	buf = append(buf, ':')
	buf = strconv.AppendInt(buf, int64(line), 10)
	buf = append(buf, ':')
	return strconv.AppendInt(buf, int64(column), 10)
}

type flusher interface {
	Flush() error
}

// emit writes the line with a trailing newline in one call and flushes
// buffered writers. Write errors are dropped: there is nobody to report to.
func (t *Tracer) emit(line []byte) {
	line = append(line, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()

	_, _ = t.w.Write(line)
	if f, ok := t.w.(flusher); ok {
		_ = f.Flush()
	}
}
