package code

import "strconv"

// ControllerCode identifies a controller input independently of the
// physical device. Values are negative and stable: they are persisted.
type ControllerCode int

const (
	DPadUp          ControllerCode = -1
	DPadDown        ControllerCode = -2
	DPadLeft        ControllerCode = -3
	DPadRight       ControllerCode = -4
	FaceButtonUp    ControllerCode = -5 // Switch naming for face buttons
	FaceButtonDown  ControllerCode = -6
	FaceButtonLeft  ControllerCode = -7
	FaceButtonRight ControllerCode = -8
	LeftShoulder    ControllerCode = -9
	RightShoulder   ControllerCode = -10
	LeftTrigger     ControllerCode = -11
	RightTrigger    ControllerCode = -12
	Select          ControllerCode = -13
	Start           ControllerCode = -14
	LeftStickClick  ControllerCode = -15
	RightStickClick ControllerCode = -16
	LeftStickUp     ControllerCode = -17
	LeftStickDown   ControllerCode = -18
	LeftStickLeft   ControllerCode = -19
	LeftStickRight  ControllerCode = -20
	RightStickUp    ControllerCode = -21
	RightStickDown  ControllerCode = -22
	RightStickLeft  ControllerCode = -23
	RightStickRight ControllerCode = -24
)

var controllerNames = map[ControllerCode]string{
	DPadUp:          "DPadUp",
	DPadDown:        "DPadDown",
	DPadLeft:        "DPadLeft",
	DPadRight:       "DPadRight",
	FaceButtonUp:    "FaceButtonUp",
	FaceButtonDown:  "FaceButtonDown",
	FaceButtonLeft:  "FaceButtonLeft",
	FaceButtonRight: "FaceButtonRight",
	LeftShoulder:    "LeftShoulder",
	RightShoulder:   "RightShoulder",
	LeftTrigger:     "LeftTrigger",
	RightTrigger:    "RightTrigger",
	Select:          "Select",
	Start:           "Start",
	LeftStickClick:  "LeftStickClick",
	RightStickClick: "RightStickClick",
	LeftStickUp:     "LeftStickUp",
	LeftStickDown:   "LeftStickDown",
	LeftStickLeft:   "LeftStickLeft",
	LeftStickRight:  "LeftStickRight",
	RightStickUp:    "RightStickUp",
	RightStickDown:  "RightStickDown",
	RightStickLeft:  "RightStickLeft",
	RightStickRight: "RightStickRight",
}

var controllerByName = func() map[string]ControllerCode {
	m := make(map[string]ControllerCode, len(controllerNames))
	for c, n := range controllerNames {
		m[n] = c
	}
	return m
}()

func (c ControllerCode) String() string {
	if n, ok := controllerNames[c]; ok {
		return n
	}
	return "ControllerCode(" + strconv.Itoa(int(c)) + ")"
}

// Valid reports whether c is one of the defined controller codes.
func (c ControllerCode) Valid() bool {
	_, ok := controllerNames[c]
	return ok
}

// ParseControllerCode resolves a controller code by name.
func ParseControllerCode(name string) (ControllerCode, bool) {
	c, ok := controllerByName[name]
	return c, ok
}

// Stick groups of controller codes, used to check whether a whole stick or
// the D-pad is bound to directional movement.
var (
	LeftStick  = []ControllerCode{LeftStickUp, LeftStickDown, LeftStickLeft, LeftStickRight}
	RightStick = []ControllerCode{RightStickUp, RightStickDown, RightStickLeft, RightStickRight}
	DPad       = []ControllerCode{DPadUp, DPadDown, DPadLeft, DPadRight}
)
