package encoder

import "fmt"

// ConfigurationError reports an invalid widget configuration to the script
// author at authoring time. It aborts the widget's render for the current
// pass; nothing is silently truncated or clamped.
type ConfigurationError struct {
	WidgetID string // Widget instance key
	Field    string // Offending field ("default", "value", ...)
	Reason   string // Human-readable reason for failure
}

func (e *ConfigurationError) Error() string {
	if e.WidgetID == "" {
		return fmt.Sprintf("invalid widget config: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid config for widget %q: %s: %s", e.WidgetID, e.Field, e.Reason)
}
