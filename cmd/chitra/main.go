package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/ayusman/chitra/internal/app"
	"github.com/ayusman/chitra/internal/config"
	"github.com/ayusman/chitra/internal/hook"
	"github.com/ayusman/chitra/internal/server"
	"github.com/ayusman/chitra/internal/store"
	"github.com/ayusman/chitra/internal/tray"
)

func main() {
	fmt.Println("Chitra - Air Canvas")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := cfg.EnsureDataDir(); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	quit := make(chan struct{})
	var quitOnce sync.Once
	requestQuit := func() { quitOnce.Do(func() { close(quit) }) }

	a := app.New(app.Config{
		Store:        st,
		CameraID:     cfg.Camera,
		Width:        cfg.Width,
		Height:       cfg.Height,
		MotionThresh: cfg.MotionThresh,
		Painter:      cfg.Painter(),
		Backend:      cfg.Canvas,
		Window:       cfg.Window,
		OnQuit:       requestQuit,
	})
	defer a.Close()

	if err := a.LoadSettings(); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}
	a.UseMediaPipe()

	if err := a.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	hookCtx, stopHooks := context.WithCancel(context.Background())
	defer stopHooks()
	startHooks(hookCtx, a, cfg)

	webDir := findWebDir(cfg.DataDir)
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})
	httpServer := srv.HTTPServer(cfg.Addr)

	go func() {
		fmt.Printf("Starting server on %s\n", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			requestQuit()
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("Received %s, shutting down", sig)
			requestQuit()
		case <-quit:
		}
	}()

	if cfg.Tray {
		t := newTray(a, "http://"+cfg.Addr, requestQuit)
		go func() {
			<-quit
			t.Quit()
		}()
		// systray needs the main goroutine.
		t.Run()
	}
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	a.Stop()
}

// startHooks runs discovered hooks on every canvas event until ctx is done.
func startHooks(ctx context.Context, a *app.App, cfg *config.Config) {
	mgr := hook.NewManager(cfg.HookDir())
	if err := mgr.Discover(); err != nil {
		log.Printf("Failed to discover hooks: %v", err)
		return
	}

	hooks := mgr.List()
	if len(hooks) == 0 {
		return
	}
	for _, h := range hooks {
		log.Printf("Loaded hook %s %s", h.Manifest.Name, h.Manifest.Version)
	}

	session := func() string {
		if sess := a.Session(); sess != nil {
			return sess.ID
		}
		return ""
	}

	events, cancel := a.Subscribe()
	d := hook.NewDispatcher(mgr, hook.NewExecutor(cfg.HookTimeout), session)
	go func() {
		defer cancel()
		d.Run(ctx, events)
	}()
}

// newTray builds the tray menu and keeps its status lines in step with the app.
func newTray(a *app.App, url string, quit func()) *tray.Tray {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnClear(a.Clear)
	t.OnSettings(func() { openBrowser(url) })
	t.OnQuit(quit)

	st := a.Status()
	t.SetStatus(st.Mode.String(), st.Color.Name)

	events, _ := a.Subscribe()
	go func() {
		for ev := range events {
			t.SetStatus(ev.To.String(), ev.Color.Name)
		}
	}()
	return t
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and <dataDir>/web.
// Returns the first existing directory or empty string if none found.
func findWebDir(dataDir string) string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	dataWebDir := filepath.Join(dataDir, "web")
	if info, err := os.Stat(dataWebDir); err == nil && info.IsDir() {
		return dataWebDir
	}

	return ""
}
