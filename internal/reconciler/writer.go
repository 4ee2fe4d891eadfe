package reconciler

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Writer consumes the diff sequence produced by a Reconciler. Write must
// fully drain the sequence, which forces the reconciliation to run to
// completion. Use cases include persisting diffs or displaying them on a
// terminal.
type Writer interface {
	Write(ctx context.Context, diffs Iterator) error
}

// NoOpWriter discards every diff it receives. It stands in where a real
// writer is expected but none is available yet.
type NoOpWriter struct{}

func (NoOpWriter) Write(ctx context.Context, diffs Iterator) error {
	for {
		_, err := diffs.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// FailingWriter always fails with its configured error. Mostly useful in
// tests.
type FailingWriter struct {
	Err error
}

func (w FailingWriter) Write(ctx context.Context, diffs Iterator) error {
	if w.Err != nil {
		return w.Err
	}
	return errors.New("failed as it should")
}

const (
	ansiDimYellow = "\x1b[2;33m"
	ansiRedBg     = "\x1b[41m"
	ansiGreenBg   = "\x1b[42m"
	ansiReset     = "\x1b[0m"
)

// PrettyWriter renders diffs in an easy-to-read format, one block per
// diff. It is optimized for terminals; there is no guarantee the output
// stays readable on other devices.
type PrettyWriter struct {
	out io.Writer
}

func NewPrettyWriter(out io.Writer) *PrettyWriter {
	return &PrettyWriter{out: out}
}

func (w *PrettyWriter) Write(ctx context.Context, diffs Iterator) error {
	for {
		diff, err := diffs.Next(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := w.print(diff); err != nil {
			return err
		}
	}
}

func (w *PrettyWriter) print(diff *Diff) error {
	_, err := fmt.Fprintf(
		w.out,
		"%s%s%s\n%s- %s%s\n%s+ %s%s\n%s--------------%s\n\n",
		ansiDimYellow, diff.Kind, ansiReset,
		ansiRedBg, diff.Expected(), ansiReset,
		ansiGreenBg, diff.Found(), ansiReset,
		ansiDimYellow, ansiReset,
	)
	return err
}
