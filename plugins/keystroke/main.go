// Package main provides a keystroke output plugin for macOS.
// It replays airkeys key presses into the focused application via AppleScript.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action string `json:"action"`
	Key    string `json:"key"`
	Char   string `json:"char,omitempty"`
	Text   string `json:"text"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// keyCodes maps functional key labels to macOS virtual key codes.
var keyCodes = map[string]int{
	"<-":  51,
	"Tab": 48,
}

// modifierKeys change only the on-screen keyboard state.
var modifierKeys = map[string]bool{
	"Shift": true,
	"Caps":  true,
}

func main() {
	resp := handle(os.Stdin, runAppleScript)
	if err := json.NewEncoder(os.Stdout).Encode(resp); err != nil {
		os.Exit(1)
	}
}

func handle(r io.Reader, run func(script string) error) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Response{Error: fmt.Sprintf("failed to decode request: %v", err)}
	}
	if req.Action != "type" {
		return Response{Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}

	script, ok := buildScript(req)
	if !ok {
		return Response{Success: true}
	}
	if err := run(script); err != nil {
		return Response{Error: fmt.Sprintf("key %q failed: %v", req.Key, err)}
	}
	return Response{Success: true}
}

// buildScript returns the AppleScript for req, or false when the key has no
// effect outside the keyboard.
func buildScript(req Request) (string, bool) {
	if code, ok := keyCodes[req.Key]; ok {
		return fmt.Sprintf(`tell application "System Events" to key code %d`, code), true
	}
	if modifierKeys[req.Key] || req.Char == "" {
		return "", false
	}
	return fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, escape(req.Char)), true
}

func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
