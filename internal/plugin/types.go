// Package plugin forwards key activations to external output plugins.
package plugin

// ActionType is the request action sent for every key activation.
const ActionType = "type"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Executable  string   `json:"executable"`
	Actions     []string `json:"actions"`
}

// Supports reports whether the manifest lists action.
func (m Manifest) Supports(action string) bool {
	for _, a := range m.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Action string `json:"action"`
	// Key is the label of the activated key.
	Key string `json:"key"`
	// Char is the character appended to the text, empty for functional keys.
	Char string `json:"char,omitempty"`
	// Text is the whole buffer after the activation.
	Text string `json:"text"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
