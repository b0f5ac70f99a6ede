package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildScript(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		script string
		ok     bool
	}{
		{"letter", Request{Key: "a", Char: "A"}, `tell application "System Events" to keystroke "A"`, true},
		{"space", Request{Key: " ", Char: " "}, `tell application "System Events" to keystroke " "`, true},
		{"quote", Request{Key: `"`, Char: `"`}, `tell application "System Events" to keystroke "\""`, true},
		{"backspace", Request{Key: "<-"}, `tell application "System Events" to key code 51`, true},
		{"tab", Request{Key: "Tab"}, `tell application "System Events" to key code 48`, true},
		{"shift", Request{Key: "Shift"}, "", false},
		{"caps", Request{Key: "Caps"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, ok := buildScript(tt.req)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.script, script)
		})
	}
}

func TestHandle(t *testing.T) {
	var scripts []string
	run := func(s string) error {
		scripts = append(scripts, s)
		return nil
	}

	resp := handle(strings.NewReader(`{"action":"type","key":"h","char":"h","text":"h"}`), run)
	assert.True(t, resp.Success)
	assert.Len(t, scripts, 1)

	resp = handle(strings.NewReader(`{"action":"type","key":"Shift","text":"h"}`), run)
	assert.True(t, resp.Success)
	assert.Len(t, scripts, 1, "modifier keys run nothing")

	resp = handle(strings.NewReader(`{"action":"launch"}`), run)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "unknown action")

	resp = handle(strings.NewReader(`not json`), run)
	assert.False(t, resp.Success)

	failing := func(string) error { return errors.New("not permitted") }
	resp = handle(strings.NewReader(`{"action":"type","key":"a","char":"a"}`), failing)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "not permitted")
}
