// Package main is a Chitra hook that raises a desktop notification when the
// drawing mode changes or the canvas is cleared.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
)

// Request is the event sent by the hook runner.
type Request struct {
	Event string `json:"event"`
	From  string `json:"from"`
	Mode  string `json:"mode"`
	Color string `json:"color"`
}

// Response is written back to the hook runner.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeResponse(fmt.Errorf("failed to decode request: %w", err))
		return
	}

	msg, ok := message(req)
	if !ok {
		writeResponse(nil)
		return
	}

	writeResponse(notify("Chitra", msg))
}

// message returns the notification text for req, or false for events this
// hook stays quiet about.
func message(req Request) (string, bool) {
	switch req.Event {
	case "mode_changed":
		return fmt.Sprintf("Mode: %s", req.Mode), true
	case "canvas_cleared":
		return "Canvas cleared", true
	default:
		return "", false
	}
}

func notify(title, msg string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %s with title %s", strconv.Quote(msg), strconv.Quote(title))
		cmd = exec.Command("osascript", "-e", script)
	default:
		cmd = exec.Command("notify-send", title, msg)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

func writeResponse(err error) {
	resp := Response{Success: err == nil}
	if err != nil {
		resp.Error = err.Error()
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
