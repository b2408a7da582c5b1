//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

const backendName = "unsupported"

const hookHint = `Note: make sure the terminal has Accessibility permissions:
System Settings > Privacy & Security > Accessibility`

func init() {
	runtime.LockOSThread()
}

func main() {
	mainthread.Init(run)
}
