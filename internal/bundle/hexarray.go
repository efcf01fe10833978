package bundle

import (
	"errors"
	"fmt"
	"io"
)

// ValuesPerLine is the number of byte values emitted on each array line.
const ValuesPerLine = 16

const hexDigits = "0123456789ABCDEF"

// arrayWriter formats bytes as the body of a C unsigned char array: every
// value is written as `0xXX,` and each line holds at most ValuesPerLine values
// behind a leading tab.
type arrayWriter struct {
	w    io.Writer
	col  int
	line []byte
	n    int64
}

func newArrayWriter(w io.Writer) *arrayWriter {
	return &arrayWriter{
		w:    w,
		line: make([]byte, 0, 1+ValuesPerLine*5+1),
	}
}

// Write appends p to the array body. It never fails on its own; errors come
// from the underlying writer.
func (a *arrayWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		if a.col == 0 {
			a.line = append(a.line[:0], '\t')
		}
		a.line = append(a.line, '0', 'x', hexDigits[b>>4], hexDigits[b&0x0f], ',')
		a.col++
		a.n++
		if a.col == ValuesPerLine {
			a.line = append(a.line, '\n')
			a.col = 0
			if _, err := a.w.Write(a.line); err != nil {
				return i + 1, err
			}
		}
	}
	return len(p), nil
}

// Close flushes a trailing partial line.
func (a *arrayWriter) Close() error {
	if a.col == 0 {
		return nil
	}
	a.line = append(a.line, '\n')
	a.col = 0
	_, err := a.w.Write(a.line)
	return err
}

// readError marks a failure on the input side of writeByteArray, so callers
// can tell an unreadable source from an unwritable destination.
type readError struct {
	err error
}

func (e *readError) Error() string { return e.err.Error() }
func (e *readError) Unwrap() error { return e.err }

// writeByteArray streams r into w as a complete C array declaration named
// name, followed by any trailer bytes. It returns the number of bytes taken
// from r; trailer bytes are not counted.
func writeByteArray(w io.Writer, name string, r io.Reader, trailer ...byte) (int64, error) {
	if _, err := fmt.Fprintf(w, "static const unsigned char %s [] = {\n", name); err != nil {
		return 0, err
	}

	aw := newArrayWriter(w)
	buf := make([]byte, 32*1024)
	for {
		nr, rerr := r.Read(buf)
		if nr > 0 {
			if _, err := aw.Write(buf[:nr]); err != nil {
				return aw.n, err
			}
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				break
			}
			return aw.n, &readError{err: rerr}
		}
	}
	size := aw.n

	if len(trailer) > 0 {
		if _, err := aw.Write(trailer); err != nil {
			return size, err
		}
	}
	if err := aw.Close(); err != nil {
		return size, err
	}
	if _, err := io.WriteString(w, "};\n"); err != nil {
		return size, err
	}
	return size, nil
}
