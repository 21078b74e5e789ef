// Package plugin discovers external hook executables and runs them when the
// gesture events they subscribe to fire.
package plugin

import "encoding/json"

// Manifest describes a plugin and the events it wants.
type Manifest struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Executable  string `json:"executable"`
	// Events lists the event types the plugin is run for. "*" matches
	// every event.
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request is written as JSON to the plugin's stdin.
type Request struct {
	Event  string          `json:"event"`
	Mode   string          `json:"mode"`
	Hand   int             `json:"hand"`
	Time   int64           `json:"time"`
	Config json.RawMessage `json:"config,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is read as JSON from the plugin's stdout.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Subscribes reports whether the plugin wants event.
func (p *Plugin) Subscribes(event string) bool {
	for _, e := range p.Manifest.Events {
		if e == "*" || e == event {
			return true
		}
	}
	return false
}
