package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayusman/airkeys/internal/app"
	"github.com/ayusman/airkeys/internal/capture"
	"github.com/ayusman/airkeys/internal/config"
	"github.com/ayusman/airkeys/internal/detector"
	"github.com/ayusman/airkeys/internal/hub"
	"github.com/ayusman/airkeys/internal/keyboard"
	"github.com/ayusman/airkeys/internal/logging"
	"github.com/ayusman/airkeys/internal/plugin"
	"github.com/ayusman/airkeys/internal/render"
	"github.com/ayusman/airkeys/internal/selection"
	"github.com/ayusman/airkeys/internal/server"
	"github.com/ayusman/airkeys/internal/session"
	"github.com/ayusman/airkeys/internal/store"
	"github.com/ayusman/airkeys/internal/suggest"
	"github.com/ayusman/airkeys/internal/tray"
)

const windowTitle = "airkeys"

func runKeyboard(cmd *cobra.Command, f *runFlags) error {
	s, err := resolveSettings(cmd, f)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: s.LogLevel, Format: logging.Format(s.LogFormat)})
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	layout := newLayout(s)
	if err := layout.Validate(); err != nil {
		return err
	}
	engine, err := newEngine(s, cmd.Flags().Changed("words"), logger)
	if err != nil {
		return err
	}
	sess := session.New(layout, newSelector(s, layout), engine)

	h := hub.New()
	defer h.Close()

	var st *store.Store
	if s.Stats {
		st, err = store.New(s.DBPath)
		if err != nil {
			logger.Warn("usage statistics disabled", "path", s.DBPath, "error", err)
		} else {
			defer st.Close()
			rec, err := store.NewRecorder(st, time.Now(), logging.Component(logger, "stats"))
			if err != nil {
				logger.Warn("usage statistics disabled", "error", err)
			} else {
				defer func() {
					if err := rec.Close(time.Now()); err != nil {
						logger.Warn("failed to close stats session", "error", err)
					}
				}()
				sess.OnActivation(func(act selection.Activation, _ string) {
					rec.Record(act.Label, time.Now())
				})
			}
		}
	}

	if s.Plugin != "" {
		d, err := startPlugin(ctx, s, logger)
		if err != nil {
			return err
		}
		defer d.Close()
		sess.OnActivation(d.Observe)
	}

	if s.ServerAddr != "" {
		srv := server.New(server.Config{Hub: h, Store: st, Logger: logging.Component(logger, "server")})
		go func() {
			if err := srv.ListenAndServe(ctx, s.ServerAddr); err != nil {
				logger.Error("preview server failed", "error", err)
			}
		}()
	}

	det, err := detector.NewMediaPipeDetector(s.Detector)
	if err != nil {
		return fmt.Errorf("hand tracker unavailable: %w", err)
	}
	defer det.Close()

	motion := capture.NewMotionDetector(app.DefaultMotionThreshold)
	defer motion.Close()

	opts := app.Options{
		Camera: capture.NewCamera(capture.Config{
			DeviceID: s.Camera,
			Width:    s.Width,
			Height:   s.Height,
		}),
		Detector:      det,
		Session:       sess,
		Hub:           h,
		PublishFrames: s.ServerAddr != "",
		Mirror:        s.Mirror,
		Motion:        motion,
		Logger:        logging.Component(logger, "app"),
	}
	headless := s.Display == config.DisplayHeadless
	if !headless || opts.PublishFrames {
		opts.Renderer = render.NewOverlay(render.DefaultStyle(), keyboard.DefaultGap)
	}
	if !headless {
		win := render.NewWindow(windowTitle)
		defer win.Close()
		opts.Display = win
	}

	a, err := app.New(opts)
	if err != nil {
		return err
	}

	if headless && s.Tray {
		return runWithTray(ctx, stop, a, h, s)
	}
	if headless {
		logger.Info("running headless, press Ctrl+C to quit")
	}
	return a.Run(ctx)
}

// runWithTray runs the frame loop in the background while the tray owns the
// main thread.
func runWithTray(ctx context.Context, stop context.CancelFunc, a *app.App, h *hub.Hub, s config.Settings) error {
	tr := tray.New()
	tr.OnPause(a.SetPaused)
	tr.OnQuit(stop)
	if s.ServerAddr != "" {
		url := previewURL(s.ServerAddr)
		tr.OnPreview(func() {
			if err := openBrowser(url); err != nil {
				slog.Warn("failed to open preview", "url", url, "error", err)
			}
		})
	}
	go tr.Follow(ctx, h)

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run(ctx)
		tr.Quit()
	}()

	tr.Run()
	stop()
	return <-errCh
}

// newLayout builds the standard layout with the configured functional key.
func newLayout(s config.Settings) keyboard.Layout {
	opts := keyboard.DefaultLayoutOptions()
	opts.Variant = s.Layout
	return keyboard.NewLayout(opts)
}

func newSelector(s config.Settings, layout keyboard.Layout) selection.Selector {
	if s.Selector == config.SelectorPinch {
		return selection.NewPinch(layout, s.PinchThreshold, s.PinchRelease)
	}
	return selection.NewDwell(layout, s.Dwell)
}

// newEngine loads the word list. An explicitly requested list must load;
// the default one may be missing.
func newEngine(s config.Settings, strict bool, logger *slog.Logger) (*suggest.Engine, error) {
	if s.Suggestions == 0 {
		return suggest.NewEngine(nil, suggest.DefaultLimit), nil
	}
	if strict {
		words, err := suggest.LoadStrict(s.Words)
		if err != nil {
			return nil, fmt.Errorf("failed to load word list: %w", err)
		}
		return suggest.NewEngine(words, s.Suggestions), nil
	}
	return suggest.NewEngine(suggest.Load(s.Words, logger), s.Suggestions), nil
}

func startPlugin(ctx context.Context, s config.Settings, logger *slog.Logger) (*plugin.Dispatcher, error) {
	mgr := plugin.NewManager(s.PluginDir, logger)
	if err := mgr.Discover(); err != nil {
		return nil, fmt.Errorf("failed to discover plugins in %s: %w", s.PluginDir, err)
	}
	p, err := mgr.Get(s.Plugin)
	if err != nil {
		return nil, fmt.Errorf("plugin %q in %s: %w", s.Plugin, s.PluginDir, err)
	}
	if !p.Manifest.Supports(plugin.ActionType) {
		return nil, fmt.Errorf("plugin %q does not support the %q action", s.Plugin, plugin.ActionType)
	}
	logger.Info("forwarding keys to plugin", "plugin", p.Manifest.Name, "version", p.Manifest.Version)
	return plugin.NewDispatcher(ctx, p, plugin.NewExecutor(plugin.DefaultTimeout), plugin.DefaultQueueSize,
		logging.Component(logger, "plugin")), nil
}

func previewURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "127.0.0.1" + addr
	}
	return "http://" + addr + "/"
}

var errNoBrowser = errors.New("no browser opener for this platform")

func openBrowser(url string) error {
	var name string
	switch runtime.GOOS {
	case "darwin":
		name = "open"
	case "linux", "freebsd", "openbsd":
		name = "xdg-open"
	default:
		return errNoBrowser
	}
	return exec.Command(name, url).Start()
}
