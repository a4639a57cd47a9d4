// ABOUTME: Defines the Key type, the control-byte table, and the names exposed to hosts.
// ABOUTME: Characters carry their raw byte; Ctrl-C is the terminate sentinel.

package key

import "fmt"

// Key is one decoded keyboard event.
type Key struct {
	Type KeyType
	Byte byte // For KeyRune: the raw input byte
}

// KeyType enumerates the key events the decoder produces.
type KeyType int

const (
	KeyRune      KeyType = iota // Literal byte
	KeyEscape                   // Bare ESC
	KeyEnter                    // Enter / Return (0x0D)
	KeyBackspace                // DEL (0x7F)
	KeyTab                      // Tab (0x09)
	KeyDelete                   // ESC [ 3 ~
	KeyUp                       // Arrow up
	KeyDown                     // Arrow down
	KeyLeft                     // Arrow left
	KeyRight                    // Arrow right
	KeyHome                     // Home
	KeyEnd                      // End
	KeyPageUp                   // Page Up
	KeyPageDown                 // Page Down
	KeyCtrlC                    // Ctrl+C: terminate
	KeyCtrlD                    // Ctrl+D
	KeyCtrlF                    // Ctrl+F
	KeyCtrlH                    // Ctrl+H
	KeyCtrlQ                    // Ctrl+Q
	KeyCtrlS                    // Ctrl+S
	KeyCtrlU                    // Ctrl+U
)

const esc = 0x1b

// ctrlKeys maps the single bytes that decode to a named key.
var ctrlKeys = map[byte]KeyType{
	0x03: KeyCtrlC,
	0x04: KeyCtrlD,
	0x06: KeyCtrlF,
	0x08: KeyCtrlH,
	0x09: KeyTab,
	0x0d: KeyEnter,
	0x11: KeyCtrlQ,
	0x13: KeyCtrlS,
	0x15: KeyCtrlU,
	0x7f: KeyBackspace,
}

// FromByte decodes a single non-ESC byte.
func FromByte(b byte) Key {
	if t, ok := ctrlKeys[b]; ok {
		return Key{Type: t}
	}
	return Key{Type: KeyRune, Byte: b}
}

// Terminates reports whether k is the hard-kill sentinel. Hosts exit the
// process when they see it instead of handing it to application code.
func (k Key) Terminates() bool {
	return k.Type == KeyCtrlC
}

// keyNames are the event names handed to the embedding application.
var keyNames = map[KeyType]string{
	KeyEscape:    "esc",
	KeyEnter:     "enter",
	KeyBackspace: "backspace",
	KeyTab:       "tab",
	KeyDelete:    "del",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pageup",
	KeyPageDown:  "pagedown",
	KeyCtrlC:     "ctrl-c",
	KeyCtrlD:     "ctrl-d",
	KeyCtrlF:     "ctrl-f",
	KeyCtrlH:     "ctrl-h",
	KeyCtrlQ:     "ctrl-q",
	KeyCtrlS:     "ctrl-s",
	KeyCtrlU:     "ctrl-u",
}

// Name returns the event name for hosts: a fixed name for named keys, or
// the raw byte as a one-byte string for KeyRune.
func (k Key) Name() string {
	if k.Type == KeyRune {
		return string([]byte{k.Byte})
	}
	if name, ok := keyNames[k.Type]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", int(k.Type))
}

// ParseName is the inverse of Name for named keys and one-byte strings.
func ParseName(name string) (Key, bool) {
	for t, n := range keyNames {
		if n == name {
			return Key{Type: t}, true
		}
	}
	if len(name) == 1 {
		return FromByte(name[0]), true
	}
	return Key{}, false
}

// String returns a readable form for logs: named keys by name, bytes quoted.
func (k Key) String() string {
	if k.Type == KeyRune {
		return fmt.Sprintf("%q", k.Byte)
	}
	return k.Name()
}
