package core

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync/atomic"
)

var (
	crashHook atomic.Pointer[func()]

	// crashOut and exit are swapped out by tests
	crashOut io.Writer = os.Stderr
	exit               = os.Exit
)

// SetCrashHook installs cleanup (terminal, speaker) for HandleCrash to run first; nil clears it
func SetCrashHook(fn func()) {
	if fn == nil {
		crashHook.Store(nil)
		return
	}
	crashHook.Store(&fn)
}

// HandleCrash runs the crash hook at most once, reports r with the stack and exits with status 1
// A nil r is ignored so it can be fed recover() directly
func HandleCrash(r any) {
	if r == nil {
		return
	}
	if hook := crashHook.Swap(nil); hook != nil {
		(*hook)()
	}

	stack := debug.Stack()
	slog.Error("panic", "value", r, "stack", string(stack))
	writeCrashReport(crashOut, r, stack)
	exit(1)
}

// writeCrashReport ends every line with \r\n; the terminal may still be in raw mode
func writeCrashReport(w io.Writer, r any, stack []byte) {
	fmt.Fprintf(w, "\r\n\x1b[31mpanic: %v\x1b[0m\r\n", r)
	for line := range bytes.Lines(stack) {
		fmt.Fprintf(w, "%s\r\n", bytes.TrimRight(line, "\r\n"))
	}
	if f, ok := w.(interface{ Sync() error }); ok {
		f.Sync()
	}
}

// Go starts fn on a goroutine whose panics go through HandleCrash
func Go(fn func()) {
	go func() {
		defer func() { HandleCrash(recover()) }()
		fn()
	}()
}
