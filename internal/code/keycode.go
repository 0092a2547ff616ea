package code

import (
	"slices"
	"strconv"
	"strings"
)

// KeyCode is a raw key in the platform keycode space. Joystick buttons are
// part of this space: JoystickButton0..19 address any joystick, and each
// further block of JoystickStride codes addresses one specific joystick.
type KeyCode int

const (
	KeyNone      KeyCode = 0
	Backspace    KeyCode = 8
	Tab          KeyCode = 9
	Clear        KeyCode = 12
	Return       KeyCode = 13
	Pause        KeyCode = 19
	Escape       KeyCode = 27
	Space        KeyCode = 32
	Quote        KeyCode = 39
	Comma        KeyCode = 44
	Minus        KeyCode = 45
	Period       KeyCode = 46
	Slash        KeyCode = 47
	Alpha0       KeyCode = 48
	Alpha1       KeyCode = 49
	Alpha2       KeyCode = 50
	Alpha3       KeyCode = 51
	Alpha4       KeyCode = 52
	Alpha5       KeyCode = 53
	Alpha6       KeyCode = 54
	Alpha7       KeyCode = 55
	Alpha8       KeyCode = 56
	Alpha9       KeyCode = 57
	Semicolon    KeyCode = 59
	Equals       KeyCode = 61
	LeftBracket  KeyCode = 91
	Backslash    KeyCode = 92
	RightBracket KeyCode = 93
	BackQuote    KeyCode = 96
	A            KeyCode = 97
	B            KeyCode = 98
	C            KeyCode = 99
	D            KeyCode = 100
	E            KeyCode = 101
	F            KeyCode = 102
	G            KeyCode = 103
	H            KeyCode = 104
	I            KeyCode = 105
	J            KeyCode = 106
	K            KeyCode = 107
	L            KeyCode = 108
	M            KeyCode = 109
	N            KeyCode = 110
	O            KeyCode = 111
	P            KeyCode = 112
	Q            KeyCode = 113
	R            KeyCode = 114
	S            KeyCode = 115
	T            KeyCode = 116
	U            KeyCode = 117
	V            KeyCode = 118
	W            KeyCode = 119
	X            KeyCode = 120
	Y            KeyCode = 121
	Z            KeyCode = 122
	Delete       KeyCode = 127

	Keypad0        KeyCode = 256
	Keypad1        KeyCode = 257
	Keypad2        KeyCode = 258
	Keypad3        KeyCode = 259
	Keypad4        KeyCode = 260
	Keypad5        KeyCode = 261
	Keypad6        KeyCode = 262
	Keypad7        KeyCode = 263
	Keypad8        KeyCode = 264
	Keypad9        KeyCode = 265
	KeypadPeriod   KeyCode = 266
	KeypadDivide   KeyCode = 267
	KeypadMultiply KeyCode = 268
	KeypadMinus    KeyCode = 269
	KeypadPlus     KeyCode = 270
	KeypadEnter    KeyCode = 271
	KeypadEquals   KeyCode = 272

	UpArrow    KeyCode = 273
	DownArrow  KeyCode = 274
	RightArrow KeyCode = 275
	LeftArrow  KeyCode = 276
	Insert     KeyCode = 277
	Home       KeyCode = 278
	End        KeyCode = 279
	PageUp     KeyCode = 280
	PageDown   KeyCode = 281

	F1  KeyCode = 282
	F2  KeyCode = 283
	F3  KeyCode = 284
	F4  KeyCode = 285
	F5  KeyCode = 286
	F6  KeyCode = 287
	F7  KeyCode = 288
	F8  KeyCode = 289
	F9  KeyCode = 290
	F10 KeyCode = 291
	F11 KeyCode = 292
	F12 KeyCode = 293

	CapsLock     KeyCode = 301
	RightShift   KeyCode = 303
	LeftShift    KeyCode = 304
	RightControl KeyCode = 305
	LeftControl  KeyCode = 306
	RightAlt     KeyCode = 307
	LeftAlt      KeyCode = 308
	RightMeta    KeyCode = 309
	LeftMeta     KeyCode = 310
	LeftWindows  KeyCode = 311
	RightWindows KeyCode = 312

	Mouse0 KeyCode = 323
	Mouse1 KeyCode = 324
	Mouse2 KeyCode = 325
	Mouse3 KeyCode = 326
	Mouse4 KeyCode = 327
	Mouse5 KeyCode = 328
	Mouse6 KeyCode = 329

	// JoystickButton0 is the first button of the "any joystick" block.
	JoystickButton0 KeyCode = 330
	// JoystickStride is the number of button codes per joystick.
	JoystickStride = 20
	// MaxJoysticks is the number of joystick-specific blocks after the
	// "any joystick" block.
	MaxJoysticks = 8
	// LastJoystickButton is the highest joystick button code.
	LastJoystickButton KeyCode = JoystickButton0 + JoystickStride*(MaxJoysticks+1) - 1
)

// JoystickButton returns the code of button n in the "any joystick" block.
func JoystickButton(n int) KeyCode {
	return JoystickButton0 + KeyCode(n)
}

// IsJoystick reports whether k is a joystick button code.
func (k KeyCode) IsJoystick() bool {
	return k >= JoystickButton0 && k <= LastJoystickButton
}

// IsModifier reports whether k is a shift, control, alt, meta or windows
// key.
func (k KeyCode) IsModifier() bool {
	return k >= RightShift && k <= RightWindows
}

// Normalize folds a joystick-specific button code back to the
// "any joystick" block. Non-joystick codes are returned unchanged.
func (k KeyCode) Normalize() KeyCode {
	if !k.IsJoystick() {
		return k
	}
	return JoystickButton0 + (k-JoystickButton0)%JoystickStride
}

// ForInstance offsets a button code of the "any joystick" block into the
// block of the controller instance at index i.
func (k KeyCode) ForInstance(i int) KeyCode {
	return k.Normalize() + KeyCode(i*JoystickStride)
}

var keyNames = map[KeyCode]string{
	KeyNone:        "None",
	Backspace:      "Backspace",
	Tab:            "Tab",
	Clear:          "Clear",
	Return:         "Return",
	Pause:          "Pause",
	Escape:         "Escape",
	Space:          "Space",
	Quote:          "Quote",
	Comma:          "Comma",
	Minus:          "Minus",
	Period:         "Period",
	Slash:          "Slash",
	Semicolon:      "Semicolon",
	Equals:         "Equals",
	LeftBracket:    "LeftBracket",
	Backslash:      "Backslash",
	RightBracket:   "RightBracket",
	BackQuote:      "BackQuote",
	Delete:         "Delete",
	KeypadPeriod:   "KeypadPeriod",
	KeypadDivide:   "KeypadDivide",
	KeypadMultiply: "KeypadMultiply",
	KeypadMinus:    "KeypadMinus",
	KeypadPlus:     "KeypadPlus",
	KeypadEnter:    "KeypadEnter",
	KeypadEquals:   "KeypadEquals",
	UpArrow:        "UpArrow",
	DownArrow:      "DownArrow",
	RightArrow:     "RightArrow",
	LeftArrow:      "LeftArrow",
	Insert:         "Insert",
	Home:           "Home",
	End:            "End",
	PageUp:         "PageUp",
	PageDown:       "PageDown",
	CapsLock:       "CapsLock",
	RightShift:     "RightShift",
	LeftShift:      "LeftShift",
	RightControl:   "RightControl",
	LeftControl:    "LeftControl",
	RightAlt:       "RightAlt",
	LeftAlt:        "LeftAlt",
	RightMeta:      "RightMeta",
	LeftMeta:       "LeftMeta",
	LeftWindows:    "LeftWindows",
	RightWindows:   "RightWindows",
}

var keyByName map[string]KeyCode

func init() {
	for i := range 10 {
		keyNames[Alpha0+KeyCode(i)] = "Alpha" + strconv.Itoa(i)
		keyNames[Keypad0+KeyCode(i)] = "Keypad" + strconv.Itoa(i)
	}
	for k := A; k <= Z; k++ {
		keyNames[k] = strings.ToUpper(string(rune(k)))
	}
	for i := range 12 {
		keyNames[F1+KeyCode(i)] = "F" + strconv.Itoa(i+1)
	}
	for i := range 7 {
		keyNames[Mouse0+KeyCode(i)] = "Mouse" + strconv.Itoa(i)
	}
	for k := JoystickButton0; k <= LastJoystickButton; k++ {
		block := int(k-JoystickButton0) / JoystickStride
		button := strconv.Itoa(int(k-JoystickButton0) % JoystickStride)
		if block == 0 {
			keyNames[k] = "JoystickButton" + button
		} else {
			keyNames[k] = "Joystick" + strconv.Itoa(block) + "Button" + button
		}
	}

	keyByName = make(map[string]KeyCode, len(keyNames))
	for k, n := range keyNames {
		keyByName[n] = k
	}
}

func (k KeyCode) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "KeyCode(" + strconv.Itoa(int(k)) + ")"
}

// ParseKeyCode resolves a key by name. Single letters are accepted in
// either case.
func ParseKeyCode(name string) (KeyCode, bool) {
	if len(name) == 1 {
		name = strings.ToUpper(name)
	}
	k, ok := keyByName[name]
	return k, ok
}

// AllKeys returns every named key code in ascending order. Sources use it
// to enumerate keys when scanning for a newly pressed key.
func AllKeys() []KeyCode {
	keys := make([]KeyCode, 0, len(keyNames))
	for k := range keyNames {
		if k != KeyNone {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	return keys
}
