package form

import (
	"fmt"
	"io"
)

// WriterNotifier prints notifications as single lines.
type WriterNotifier struct {
	Out io.Writer
	Err io.Writer
}

func (n WriterNotifier) Success(msg string) {
	fmt.Fprintln(n.Out, msg)
}

func (n WriterNotifier) Error(msg string) {
	fmt.Fprintln(n.Err, "error:", msg)
}
