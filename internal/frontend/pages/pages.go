// Package pages holds the list and detail views of the terminal client. Each
// page fetches on Load and renders whatever state the last fetch left.
package pages

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"
)

// State is the lifecycle position of a page.
type State string

const (
	Idle     State = "idle"
	Loading  State = "loading"
	Success  State = "success"
	Empty    State = "empty"
	NotFound State = "not_found"
	Error    State = "error"
)

const (
	MsgLoading    = "Loading..."
	MsgEmpty      = "No companies yet."
	MsgNotFound   = "Company not found"
	MsgLoadFailed = "Something went wrong while loading. Please try again."
)

func renderState(w io.Writer, s State) error {
	var msg string
	switch s {
	case Idle:
		return nil
	case Loading:
		msg = MsgLoading
	case Empty:
		msg = MsgEmpty
	case NotFound:
		msg = MsgNotFound
	case Error:
		msg = MsgLoadFailed
	default:
		return fmt.Errorf("no message for state %q", s)
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func text(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func number[T int | int64](n *T) string {
	if n == nil {
		return "-"
	}
	return strconv.FormatInt(int64(*n), 10)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}
