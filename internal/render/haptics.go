package render

import "github.com/gdamore/tcell/v2"

// Bell stands in for a vibration motor: it rings the terminal bell once per pulse
// pattern.
type Bell struct {
	Screen tcell.Screen
}

func (b Bell) Vibrate(pattern ...int) {
	if b.Screen == nil || len(pattern) == 0 {
		return
	}
	b.Screen.Beep()
}
