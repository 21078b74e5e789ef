package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/handmagic/internal/app"
	"github.com/ayusman/handmagic/internal/config"
	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/server"
	"github.com/ayusman/handmagic/internal/store"
	"github.com/ayusman/handmagic/internal/tray"
)

func main() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("Failed to get home directory: %v", err)
	}
	dataDir := filepath.Join(homeDir, ".handmagic")

	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", 0, "camera device index")
	assetDir := flag.String("assets", "assets", "directory with fire.gif, sparkles/, spark.png and snowflake.png")
	configPath := flag.String("config", "", "tuning JSON file (defaults: "+config.DefaultConfigPath+" if present)")
	dbPath := flag.String("db", filepath.Join(dataDir, "handmagic.db"), "SQLite database path")
	pluginDir := flag.String("plugins", filepath.Join(dataDir, "plugins"), "plugin directory")
	webDir := flag.String("web", "", "static web directory (searched for when empty)")
	motion := flag.Float64("motion", 0, "skip hand detection when less than this percent of pixels change (0 disables)")
	useTray := flag.Bool("tray", false, "show the system tray menu")
	flag.Parse()

	fmt.Println("HandMagic - Gesture-driven video effects")

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	dispatchCfg, err := loadDispatchConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load tuning config: %v", err)
	}

	hub := server.NewEventHub()
	defer hub.Close()

	sinks := app.Sinks{hub}
	var tr *tray.Tray
	if *useTray {
		tr = tray.New(dispatch.ModeNone, true)
		sinks = append(sinks, tr)
	}

	if _, err := os.Stat(*assetDir); err != nil {
		log.Printf("Asset directory %s not found, using built-in sprites", *assetDir)
		*assetDir = ""
	}

	application := app.New(app.Config{
		Store:         st,
		PluginDir:     *pluginDir,
		CameraID:      *cameraID,
		AssetDir:      *assetDir,
		Dispatch:      dispatchCfg,
		MotionPercent: *motion,
		Events:        sinks,
	})
	defer application.Close()

	if err := application.DiscoverPlugins(); err != nil {
		log.Printf("Plugin discovery failed: %v", err)
	}

	if err := application.Start(); err != nil {
		log.Fatalf("Failed to start frame loop: %v", err)
	}

	if *webDir == "" {
		*webDir = findWebDir()
	}
	if *webDir != "" {
		fmt.Printf("Serving static files from: %s\n", *webDir)
	}

	srv := server.New(server.Config{
		StaticDir: *webDir,
		Store:     st,
		App:       application,
		Events:    hub,
	})

	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if tr == nil {
		waitForSignal()
		return
	}

	s := application.Settings()
	tr.SetMode(dispatch.Mode(s.Mode))
	tr.SetEnabled(s.Enabled)
	tr.OnMode(func(m dispatch.Mode) {
		if err := application.SetMode(m); err != nil {
			log.Printf("Failed to switch effect: %v", err)
		}
	})
	tr.OnToggle(application.SetEnabled)
	tr.OnOpen(func() { openBrowser(browserURL(*addr)) })
	go func() {
		waitForSignal()
		application.Stop()
		os.Exit(0)
	}()

	// systray needs the main goroutine
	tr.Run()
}

// loadDispatchConfig returns the compiled-in defaults with the tuning file
// applied. An empty path tries DefaultConfigPath and ignores it when absent.
func loadDispatchConfig(path string) (dispatch.Config, error) {
	cfg := dispatch.DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = config.DefaultConfigPath
	}

	tc, err := config.LoadTuningConfig(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	tc.Apply(&cfg)
	log.Printf("Loaded tuning config from %s", path)
	return cfg, nil
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

func browserURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
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
// It checks: "web", "../web", "../../web", and ~/.handmagic/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
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

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".handmagic", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
