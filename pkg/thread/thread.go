// Package thread runs functions on the main OS thread.
// Drivers bound to a GL context on macOS need it.
// See: https://github.com/golang/go/wiki/LockOSThread
package thread

import (
	"runtime"

	"github.com/faiface/mainthread"
)

var isMacOs = runtime.GOOS == "darwin"

// MainMaybe calls a function on the main thread.
// Enabled for macOS only, elsewhere it runs f right away.
func MainMaybe(f func()) {
	if isMacOs {
		mainthread.Call(f)
	} else {
		f()
	}
}

// Main calls a function on the main thread on every OS.
// Only valid inside of the Wrap call.
func Main(f func()) { mainthread.Call(f) }

// Wrap runs f with the main thread service available on every OS.
func Wrap(f func()) { mainthread.Run(f) }
