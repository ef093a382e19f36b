package gc

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/shiinamiyuki/concurrent-gc/internal/gclog"
)

// fatalHook lets this package's own tests observe a fatal condition
// instead of killing the test binary via os.Exit.
var fatalHook func(msg string)

// fatalf reports an invariant violation or unrecoverable condition
// (out of memory, double Init, sweep-time GRAY object, misuse of a
// handle): it logs, prints a stack trace, and aborts the process.
func fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	gclog.Default.Error("FATAL: %s\n%s", msg, debug.Stack())
	if fatalHook != nil {
		fatalHook(msg)
		return
	}
	os.Exit(2)
}

// withFatalHook installs fn in place of os.Exit for the duration of a
// test, returning a func to restore the previous hook.
func withFatalHook(fn func(msg string)) func() {
	prev := fatalHook
	fatalHook = fn
	return func() { fatalHook = prev }
}
