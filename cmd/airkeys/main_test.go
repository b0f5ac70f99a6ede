package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/keyboard"
	"github.com/ayusman/airkeys/internal/selection"
	"github.com/ayusman/airkeys/internal/store"
)

func newTestRunCmd(t *testing.T, args ...string) (*cobra.Command, *runFlags) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	f := &runFlags{}
	cmd := &cobra.Command{Use: "run"}
	f.register(cmd)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd, f
}

func TestResolveSettingsDefaults(t *testing.T) {
	cmd, f := newTestRunCmd(t)

	s, err := resolveSettings(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, 600*time.Millisecond, s.Dwell)
	assert.Equal(t, keyboard.VariantTab, s.Layout)
	assert.Equal(t, config.SelectorDwell, s.Selector)
	assert.Equal(t, config.DisplayWindow, s.Display)
	assert.True(t, s.Mirror)
}

func TestResolveSettingsFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("dwell_ms = 900\nlayout = \"caps\"\ncamera = 2\n"), 0o644))

	cmd, f := newTestRunCmd(t, "--config", path, "--dwell-ms", "400", "--headless")

	s, err := resolveSettings(cmd, f)
	require.NoError(t, err)

	assert.Equal(t, 400*time.Millisecond, s.Dwell, "flag wins over file")
	assert.Equal(t, keyboard.VariantCaps, s.Layout, "file wins over default")
	assert.Equal(t, 2, s.Camera)
	assert.Equal(t, config.DisplayHeadless, s.Display)
}

func TestResolveSettingsUnchangedFlagKeepsFileValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("mirror = false\n"), 0o644))

	cmd, f := newTestRunCmd(t, "--config", path)

	s, err := resolveSettings(cmd, f)
	require.NoError(t, err)
	assert.False(t, s.Mirror)
}

func TestResolveSettingsRejectsInvalidFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"dwell", []string{"--dwell-ms", "0"}},
		{"layout", []string{"--layout", "dvorak"}},
		{"selector", []string{"--selector", "blink"}},
		{"camera", []string{"--camera", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := newTestRunCmd(t, tt.args...)
			_, err := resolveSettings(cmd, f)
			assert.Error(t, err)
		})
	}
}

func TestResolveSettingsBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("no_such_key = 1\n"), 0o644))

	cmd, f := newTestRunCmd(t, "--config", path)
	_, err := resolveSettings(cmd, f)
	assert.ErrorContains(t, err, "no_such_key")
}

func TestNewLayout(t *testing.T) {
	s := config.Defaults()
	want := keyboard.NewLayout(keyboard.DefaultLayoutOptions())
	assert.Equal(t, want, newLayout(s))

	s.Layout = keyboard.VariantCaps
	caps := newLayout(s)
	require.NoError(t, caps.Validate())
	require.Equal(t, want.Len(), caps.Len())
	for i := 0; i < want.Len()-1; i++ {
		assert.Equal(t, want.Buttons[i], caps.Buttons[i])
	}
	last := caps.Buttons[caps.Len()-1]
	assert.Equal(t, keyboard.LabelCaps, last.Label)
	assert.Equal(t, 775, last.X)
}

func TestNewSelector(t *testing.T) {
	layout := keyboard.NewLayout(keyboard.DefaultLayoutOptions())
	s := config.Defaults()

	_, ok := newSelector(s, layout).(*selection.Dwell)
	assert.True(t, ok)

	s.Selector = config.SelectorPinch
	_, ok = newSelector(s, layout).(*selection.Pinch)
	assert.True(t, ok)
}

func TestNewEngine(t *testing.T) {
	dir := t.TempDir()
	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("hello\nhelp\n"), 0o644))

	s := config.Defaults()
	s.Words = words
	engine, err := newEngine(s, true, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "help"}, engine.Suggest("hel"))

	s.Suggestions = 0
	engine, err = newEngine(s, true, nil)
	require.NoError(t, err)
	assert.Empty(t, engine.Suggest("hel"))
}

func TestNewEngineMissingWordList(t *testing.T) {
	s := config.Defaults()
	s.Words = filepath.Join(t.TempDir(), "missing.txt")

	engine, err := newEngine(s, false, nil)
	require.NoError(t, err, "the default list may be missing")
	assert.Empty(t, engine.Suggest("hel"))

	_, err = newEngine(s, true, nil)
	assert.Error(t, err, "an explicit --words must exist")
}

func TestPreviewURL(t *testing.T) {
	assert.Equal(t, "http://127.0.0.1:8765/", previewURL(":8765"))
	assert.Equal(t, "http://localhost:9000/", previewURL("localhost:9000"))
}

func TestConfigCommandWritesTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airkeys", "config.toml")
	var out bytes.Buffer

	cmd := newConfigCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "wrote")

	_, err := config.LoadConfig(path)
	require.NoError(t, err)

	out.Reset()
	cmd = newConfigCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--path", path})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "already exists")
}

func TestPrintStats(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer st.Close()

	now := time.Now()
	sess, err := st.Sessions().Start(now.Add(-time.Minute))
	require.NoError(t, err)
	for _, label := range []string{"H", "A", " ", "A"} {
		require.NoError(t, st.Sessions().RecordKey(sess.ID, label, now))
	}
	require.NoError(t, st.Sessions().End(sess.ID, now))

	var out bytes.Buffer
	require.NoError(t, printStats(&out, st, statsOptions{sessions: 5, barWidth: 10}, now))

	text := out.String()
	assert.Contains(t, text, "Keys (4 presses)")
	assert.Contains(t, text, "<space>")
	assert.Contains(t, text, "50.0%")
	assert.Contains(t, text, "Recent sessions")
	assert.Contains(t, text, "1m0s")
}

func TestPrintStatsEmpty(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer st.Close()

	var out bytes.Buffer
	require.NoError(t, printStats(&out, st, statsOptions{sessions: 5}, time.Now()))
	assert.Contains(t, out.String(), "No key presses recorded yet.")
}

func TestPrintStatsPlain(t *testing.T) {
	st, err := store.New(filepath.Join(t.TempDir(), "stats.db"))
	require.NoError(t, err)
	defer st.Close()

	now := time.Now()
	sess, err := st.Sessions().Start(now)
	require.NoError(t, err)
	require.NoError(t, st.Sessions().RecordKey(sess.ID, "<-", now))

	var out bytes.Buffer
	require.NoError(t, printStats(&out, st, statsOptions{top: 1, plain: true, barWidth: 10}, now))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "# Keys (1 presses)", lines[0])
	assert.Equal(t, "Key\tPresses\tShare\tLast pressed", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "<backspace>\t1\t100.0%\t"))
}

func TestBar(t *testing.T) {
	assert.Equal(t, "██████████", bar(8, 8, 10))
	assert.Equal(t, "█████", bar(4, 8, 10))
	assert.Equal(t, "█", bar(1, 100, 10), "non-zero counts always show")
	assert.Equal(t, "", bar(0, 8, 10))
	assert.Equal(t, "", bar(3, 0, 10))
}

func TestBarWidth(t *testing.T) {
	assert.Equal(t, maxBarWidth, barWidth(200))
	assert.Equal(t, 4, barWidth(statsTableWidth+4))
	assert.Equal(t, 0, barWidth(40))
}
