// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Bindings
	OpBindingsLoad  Op = "load key bindings"
	OpBindingsSave  Op = "save key bindings"
	OpBindingsReset Op = "reset key bindings"
	OpBindingAdd    Op = "add binding"
	OpBindingRemove Op = "remove binding"

	// Rebinding
	OpRebindStart Op = "start rebinding"

	// Settings
	OpSettingsLoad Op = "load settings"
	OpSettingsSave Op = "save settings"

	// Localization
	OpLanguageLoad  Op = "load language"
	OpLanguageIndex Op = "read translations"

	// Devices
	OpRumble Op = "rumble controller"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpStateOpen  Op = "open state database"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
