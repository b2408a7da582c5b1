//go:build linux

package main

const backendName = "evdev"

const hookHint = `Note: vinav reads /dev/input/event* and writes /dev/uinput.
  sudo usermod -aG input $USER      (then log out and back in)
  sudo modprobe uinput
  sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput
Run "vinav -doctor" to check each step.`

func main() {
	run()
}
