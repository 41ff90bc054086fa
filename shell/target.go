package shell

import (
	"bytes"
	"errors"
	"io"
	"os"
)

type targetKind int

const (
	captureTarget targetKind = iota
	inheritTarget
	discardTarget
	writerTarget
)

// Target selects where a child output stream goes.
// The zero value captures into the Result.
type Target struct {
	kind targetKind
	w    io.Writer
}

// Capture collects the stream into the Result.
func Capture() Target { return Target{kind: captureTarget} }

// Inherit connects the stream to the corresponding stream of this process.
func Inherit() Target { return Target{kind: inheritTarget} }

// Discard drops the stream.
func Discard() Target { return Target{kind: discardTarget} }

// To sends the stream to w. Passing an *os.File hands the descriptor to
// the child directly.
func To(w io.Writer) Target { return Target{kind: writerTarget, w: w} }

func (t Target) captures() bool {
	return t.kind == captureTarget
}

func (t Target) validate() error {
	if t.kind == writerTarget && t.w == nil {
		return errors.New("output target writer is nil")
	}
	return nil
}

// bind returns the writer exec.Cmd should use. A nil writer makes exec
// connect the stream to the null device.
func (t Target) bind(buf *bytes.Buffer, parent *os.File) io.Writer {
	switch t.kind {
	case inheritTarget:
		return parent
	case discardTarget:
		return nil
	case writerTarget:
		return t.w
	}
	return buf
}

func (t Target) String() string {
	switch t.kind {
	case inheritTarget:
		return "inherit"
	case discardTarget:
		return "discard"
	case writerTarget:
		return "writer"
	}
	return "capture"
}
