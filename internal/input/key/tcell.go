package key

import (
	"github.com/gdamore/tcell/v2"
)

// FromTcell converts a terminal key event into a Chord.
// Events with no portable equivalent yield the zero Chord.
func FromTcell(ev *tcell.EventKey) Chord {
	if ev == nil {
		return Chord{}
	}
	return chordFromTcell(ev.Key(), ev.Rune(), ev.Modifiers())
}

func chordFromTcell(k tcell.Key, r rune, tm tcell.ModMask) Chord {
	mods := modifierFromTcell(tm)

	switch k {
	case tcell.KeyRune:
		return NewRuneChord(r, mods)
	case tcell.KeyEscape:
		return NewSpecialChord(KeyEscape, mods)
	case tcell.KeyEnter:
		return NewSpecialChord(KeyReturn, mods)
	case tcell.KeyTab:
		return NewSpecialChord(KeyTab, mods)
	case tcell.KeyBacktab:
		return NewSpecialChord(KeyBacktab, mods)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return NewSpecialChord(KeyBackspace, mods)
	case tcell.KeyDelete:
		return NewSpecialChord(KeyDelete, mods)
	case tcell.KeyInsert:
		return NewSpecialChord(KeyInsert, mods)
	case tcell.KeyHome:
		return NewSpecialChord(KeyHome, mods)
	case tcell.KeyEnd:
		return NewSpecialChord(KeyEnd, mods)
	case tcell.KeyPgUp:
		return NewSpecialChord(KeyPageUp, mods)
	case tcell.KeyPgDn:
		return NewSpecialChord(KeyPageDown, mods)
	case tcell.KeyUp:
		return NewSpecialChord(KeyUp, mods)
	case tcell.KeyDown:
		return NewSpecialChord(KeyDown, mods)
	case tcell.KeyLeft:
		return NewSpecialChord(KeyLeft, mods)
	case tcell.KeyRight:
		return NewSpecialChord(KeyRight, mods)
	case tcell.KeyPause:
		return NewSpecialChord(KeyPause, mods)
	case tcell.KeyPrint:
		return NewSpecialChord(KeyPrint, mods)
	case tcell.KeyHelp:
		return NewSpecialChord(KeyHelp, mods)
	case tcell.KeyCtrlSpace:
		return NewSpecialChord(KeySpace, mods.With(ModCtrl))
	}

	if k >= tcell.KeyF1 && k <= tcell.KeyF1+MaxFunctionKey-1 {
		return NewSpecialChord(FunctionKey(int(k-tcell.KeyF1)+1), mods)
	}

	// Control codes that did not match a named key above.
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return NewRuneChord('A'+rune(k-tcell.KeyCtrlA), mods.With(ModCtrl))
	}

	return Chord{}
}

func modifierFromTcell(tm tcell.ModMask) Modifier {
	var mods Modifier
	if tm&tcell.ModCtrl != 0 {
		mods = mods.With(ModCtrl)
	}
	if tm&tcell.ModAlt != 0 {
		mods = mods.With(ModAlt)
	}
	if tm&tcell.ModShift != 0 {
		mods = mods.With(ModShift)
	}
	if tm&tcell.ModMeta != 0 {
		mods = mods.With(ModMeta)
	}
	return mods
}
