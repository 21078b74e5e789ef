// Package main provides a notification plugin. It shows a desktop
// notification for each gesture event it receives, using notify-send on
// Linux and AppleScript on macOS.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event  string          `json:"event"`
	Mode   string          `json:"mode"`
	Hand   int             `json:"hand"`
	Time   int64           `json:"time"`
	Config json.RawMessage `json:"config"`
	Params json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NotifyParams optionally overrides the notification text.
type NotifyParams struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	DryRun  bool   `json:"dry_run"` // report the message without showing it
}

// eventMessages maps event types to the default notification body.
var eventMessages = map[string]string{
	"opened_after_closed": "Hand opened",
	"spin":                "Spin detected",
	"mode_changed":        "Effect changed",
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var p NotifyParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &p); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse params: %v", err))
			return
		}
	}

	title, message, err := buildMessage(req, p)
	if err != nil {
		writeErrorResponse(err.Error())
		return
	}

	if !p.DryRun {
		if err := notify(title, message); err != nil {
			writeErrorResponse(fmt.Sprintf("notify failed: %v", err))
			return
		}
	}

	data, _ := json.Marshal(map[string]string{"title": title, "message": message})
	writeSuccessResponse(data)
}

// buildMessage picks the notification text for req.
func buildMessage(req Request, p NotifyParams) (string, string, error) {
	title := p.Title
	if title == "" {
		title = "HandMagic"
	}

	message := p.Message
	if message == "" {
		base, ok := eventMessages[req.Event]
		if !ok {
			return "", "", fmt.Errorf("unknown event: %s", req.Event)
		}
		message = base
		if req.Mode != "" && req.Mode != "none" {
			message = fmt.Sprintf("%s (%s)", base, strings.ReplaceAll(req.Mode, "_", " "))
		}
	}
	return title, message, nil
}

// notifyCommand returns the command that shows a notification on goos.
func notifyCommand(goos, title, message string) (string, []string, error) {
	switch goos {
	case "linux":
		return "notify-send", []string{title, message}, nil
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		return "osascript", []string{"-e", script}, nil
	default:
		return "", nil, fmt.Errorf("notifications not supported on %s", goos)
	}
}

func notify(title, message string) error {
	name, args, err := notifyCommand(runtime.GOOS, title, message)
	if err != nil {
		return err
	}
	output, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse(data json.RawMessage) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true, Data: data})
}
