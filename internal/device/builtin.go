package device

import "github.com/llehouerou/rebind/internal/code"

// Standard joystick button layout shared by the built-in profiles.
var standardKeys = []struct {
	code   code.ControllerCode
	button int
	glyph  string
}{
	{code.FaceButtonDown, 0, "button_down"},
	{code.FaceButtonRight, 1, "button_right"},
	{code.FaceButtonLeft, 2, "button_left"},
	{code.FaceButtonUp, 3, "button_up"},
	{code.LeftShoulder, 4, "shoulder_l"},
	{code.RightShoulder, 5, "shoulder_r"},
	{code.Select, 6, "select"},
	{code.Start, 7, "start"},
	{code.LeftStickClick, 8, "stick_l_press"},
	{code.RightStickClick, 9, "stick_r_press"},
}

var standardAxes = []struct {
	code  code.ControllerCode
	axis  string
	dir   AxisDir
	glyph string
}{
	{code.DPadUp, "DPadY", Positive, "dpad_up"},
	{code.DPadDown, "DPadY", Negative, "dpad_down"},
	{code.DPadLeft, "DPadX", Negative, "dpad_left"},
	{code.DPadRight, "DPadX", Positive, "dpad_right"},
	{code.LeftStickUp, "LeftStickY", Negative, "stick_l_up"},
	{code.LeftStickDown, "LeftStickY", Positive, "stick_l_down"},
	{code.LeftStickLeft, "LeftStickX", Negative, "stick_l_left"},
	{code.LeftStickRight, "LeftStickX", Positive, "stick_l_right"},
	{code.RightStickUp, "RightStickY", Negative, "stick_r_up"},
	{code.RightStickDown, "RightStickY", Positive, "stick_r_down"},
	{code.RightStickLeft, "RightStickX", Negative, "stick_r_left"},
	{code.RightStickRight, "RightStickX", Positive, "stick_r_right"},
	{code.LeftTrigger, "LeftTrigger", Positive, "trigger_l"},
	{code.RightTrigger, "RightTrigger", Positive, "trigger_r"},
}

func standard(name, nameKey, prefix string, terms ...string) *ControllerConfig {
	c := &ControllerConfig{
		Name:            name,
		NameKey:         nameKey,
		SearchTerms:     terms,
		DPadGlyph:       prefix + "dpad",
		LeftStickGlyph:  prefix + "stick_l",
		RightStickGlyph: prefix + "stick_r",
	}
	for _, k := range standardKeys {
		c.Keys = append(c.Keys, KeyMapping{Code: k.code, Key: code.JoystickButton(k.button), Glyph: prefix + k.glyph})
	}
	for _, a := range standardAxes {
		c.Axes = append(c.Axes, AxisMapping{Code: a.code, Axis: a.axis, Dir: a.dir, Glyph: prefix + a.glyph})
	}
	return c
}

// Builtin returns the controller profiles used when none are configured.
// The first one is the default glyph set.
func Builtin() []*ControllerConfig {
	return []*ControllerConfig{
		standard("Xbox Controller", "controller_xbox", "xbox_", "Xbox", "XInput", "X-Box"),
		standard("PlayStation Controller", "controller_playstation", "ps_", "DualShock", "DualSense", "Wireless Controller", "PS4", "PS5"),
		standard("Switch Pro Controller", "controller_switch", "switch_", "Pro Controller", "Nintendo"),
	}
}
