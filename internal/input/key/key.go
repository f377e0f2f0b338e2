package key

import (
	"fmt"
	"strconv"
	"strings"
)

// Key represents a keyboard key.
// For character keys, use KeyRune and set the Rune field in Chord.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Special keys
	KeyEscape
	KeyEnter
	KeyReturn
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Other special keys
	KeySpace
	KeyPause
	KeyPrint
	KeyScrollLock
	KeyNumLock
	KeyCapsLock
	KeyHelp
	KeyMenu

	// KeyF1 is the first of the function keys; F1..F35 are contiguous.
	KeyF1
	keyFLast = KeyF1 + 34

	// KeyRune is used for character keys (letters, numbers, punctuation).
	// The actual character is stored in Chord.Rune.
	KeyRune = keyFLast + 1
)

// MaxFunctionKey is the highest function key number.
const MaxFunctionKey = 35

// FunctionKey returns the key for Fn, or KeyNone if n is out of range.
func FunctionKey(n int) Key {
	if n < 1 || n > MaxFunctionKey {
		return KeyNone
	}
	return KeyF1 + Key(n-1)
}

var keyNames = map[Key]string{
	KeyNone:       "None",
	KeyEscape:     "Esc",
	KeyEnter:      "Enter",
	KeyReturn:     "Return",
	KeyTab:        "Tab",
	KeyBacktab:    "Backtab",
	KeyBackspace:  "Backspace",
	KeyDelete:     "Del",
	KeyInsert:     "Ins",
	KeyHome:       "Home",
	KeyEnd:        "End",
	KeyPageUp:     "PgUp",
	KeyPageDown:   "PgDown",
	KeyUp:         "Up",
	KeyDown:       "Down",
	KeyLeft:       "Left",
	KeyRight:      "Right",
	KeySpace:      "Space",
	KeyPause:      "Pause",
	KeyPrint:      "Print",
	KeyScrollLock: "ScrollLock",
	KeyNumLock:    "NumLock",
	KeyCapsLock:   "CapsLock",
	KeyHelp:       "Help",
	KeyMenu:       "Menu",
	KeyRune:       "Rune",
}

// String returns the portable name of the key, e.g. "Esc", "PgUp", "F5".
func (k Key) String() string {
	if k.IsFunctionKey() {
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", k)
}

// IsSpecial returns true if this is a special (non-character) key.
func (k Key) IsSpecial() bool {
	return k != KeyNone && k != KeyRune
}

// IsFunctionKey returns true if this is a function key (F1-F35).
func (k Key) IsFunctionKey() bool {
	return k >= KeyF1 && k <= keyFLast
}

// IsArrowKey returns true if this is an arrow key.
func (k Key) IsArrowKey() bool {
	return k >= KeyUp && k <= KeyRight
}

// IsNavigationKey returns true if this is a navigation key.
func (k Key) IsNavigationKey() bool {
	return k.IsArrowKey() || k == KeyHome || k == KeyEnd || k == KeyPageUp || k == KeyPageDown
}

// keyNameMap maps key names (lowercase) to Key values.
// Portable names, their long forms and Vim aliases are all accepted.
var keyNameMap = map[string]Key{
	"escape":     KeyEscape,
	"esc":        KeyEscape,
	"enter":      KeyEnter,
	"cr":         KeyReturn,
	"return":     KeyReturn,
	"tab":        KeyTab,
	"backtab":    KeyBacktab,
	"backspace":  KeyBackspace,
	"bs":         KeyBackspace,
	"delete":     KeyDelete,
	"del":        KeyDelete,
	"insert":     KeyInsert,
	"ins":        KeyInsert,
	"home":       KeyHome,
	"end":        KeyEnd,
	"pageup":     KeyPageUp,
	"pgup":       KeyPageUp,
	"pagedown":   KeyPageDown,
	"pgdown":     KeyPageDown,
	"pgdn":       KeyPageDown,
	"up":         KeyUp,
	"down":       KeyDown,
	"left":       KeyLeft,
	"right":      KeyRight,
	"space":      KeySpace,
	"pause":      KeyPause,
	"print":      KeyPrint,
	"sysreq":     KeyPrint,
	"scrolllock": KeyScrollLock,
	"numlock":    KeyNumLock,
	"capslock":   KeyCapsLock,
	"help":       KeyHelp,
	"menu":       KeyMenu,
}

// KeyFromName returns the Key for a given name (case-insensitive).
// Returns KeyNone if the name is not recognized.
func KeyFromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	if len(name) >= 2 && name[0] == 'f' {
		if n, err := strconv.Atoi(name[1:]); err == nil {
			return FunctionKey(n)
		}
	}
	return KeyNone
}
