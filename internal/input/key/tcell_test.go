package key

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestFromTcell(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), "Q"},
		{"alt rune", tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModAlt), "Alt+X"},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), "Ctrl+S"},
		{"function", tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModShift), "Shift+F5"},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "Esc"},
		{"page down", tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone), "PgDown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromTcell(tt.ev).String(); got != tt.want {
				t.Errorf("FromTcell() = %q, want %q", got, tt.want)
			}
		})
	}

	if !FromTcell(nil).IsEmpty() {
		t.Error("FromTcell(nil) should be empty")
	}
}
