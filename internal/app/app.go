// Package app runs the HandMagic frame loop: it reads camera frames, detects
// hands, renders the selected effect and publishes the result.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/handmagic/internal/assets"
	"github.com/ayusman/handmagic/internal/capture"
	"github.com/ayusman/handmagic/internal/detector"
	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/plugin"
	"github.com/ayusman/handmagic/internal/store"
)

// ErrUnboundKey is returned by HandleKey for a key with no effect.
var ErrUnboundKey = errors.New("key is not bound to an effect")

// DefaultBindings are used for keys that have no stored binding.
var DefaultBindings = map[string]dispatch.Mode{
	"1": dispatch.ModeExplosion,
	"2": dispatch.ModeSnow,
	"3": dispatch.ModeSparkles,
	"4": dispatch.ModeFire,
	"5": dispatch.ModeRainbowTrail,
	"6": dispatch.ModeRainbowArcs,
	"9": dispatch.ModeNone,
}

// EventSink receives gesture events and mode changes as they happen.
type EventSink interface {
	Broadcast(v any)
}

// Sinks fans events out to several sinks in order.
type Sinks []EventSink

func (s Sinks) Broadcast(v any) {
	for _, sink := range s {
		sink.Broadcast(v)
	}
}

// Config holds configuration options for the application.
type Config struct {
	Store     *store.Store
	PluginDir string
	CameraID  int
	// AssetDir holds the effect sprites. Empty uses the built-in drawings.
	AssetDir string
	Dispatch dispatch.Config
	// MotionPercent enables the motion gate: detection is skipped on still
	// frames. Zero disables it.
	MotionPercent float64
	Events        EventSink
}

// Status is a snapshot of the frame loop, refreshed after every frame.
type Status struct {
	Running             bool          `json:"running"`
	Enabled             bool          `json:"enabled"`
	Mode                dispatch.Mode `json:"mode"`
	Intensity           float64       `json:"intensity"`
	Hands               int           `json:"hands"`
	HandOpen            bool          `json:"hand_open"`
	HandSize            float64       `json:"hand_size"`
	SinceOpenAfterClose int64         `json:"since_open_after_close_ms"`
	SinceSpin           int64         `json:"since_spin_ms"`
	Frames              uint64        `json:"frames"`
	Plugins             int           `json:"plugins"`
}

// App wires the camera, detector, dispatcher and plugin hooks together.
type App struct {
	config     Config
	camera     capture.Camera
	adjuster   *capture.Adjuster
	motion     *capture.MotionGate
	detector   detector.Detector
	assets     *assets.Set
	dispatcher *dispatch.Dispatcher
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor
	hooks      *plugin.Hooks
	events     EventSink

	mu        sync.RWMutex
	mode      dispatch.Mode
	intensity float64
	enabled   bool
	stopCh    chan struct{}
	doneCh    chan struct{}

	statusMu sync.RWMutex
	status   Status

	frameMu  sync.RWMutex
	frameJPG []byte
	frameSeq uint64
}

// New creates a new App instance with the given configuration. Settings are
// loaded from the store when one is configured.
func New(config Config) *App {
	if config.Dispatch.MaxHands == 0 {
		config.Dispatch = dispatch.DefaultConfig()
	}

	set := assets.Builtin()
	if config.AssetDir != "" {
		set = assets.Load(config.AssetDir)
	}

	a := &App{
		config:     config,
		camera:     capture.NewCameraWithConfig(capture.Config{DeviceID: config.CameraID, Width: config.Dispatch.FrameWidth, Height: config.Dispatch.FrameHeight, FPS: capture.DefaultFPS}),
		adjuster:   capture.NewAdjuster(capture.DefaultAdjustment()),
		assets:     set,
		dispatcher: dispatch.New(config.Dispatch, set),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(plugin.DefaultTimeoutMs),
		events:     config.Events,
		mode:       dispatch.ModeNone,
		intensity:  1,
		enabled:    true,
	}
	a.hooks = plugin.NewHooks(a.pluginMgr, a.pluginExec)

	if config.MotionPercent > 0 {
		a.motion = capture.NewMotionGate(config.MotionPercent, capture.DefaultHoldFrames)
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	if err := a.LoadSettings(); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}
	a.resetFrameStatus()
	return a
}

// LoadSettings applies the settings saved in the store.
func (a *App) LoadSettings() error {
	if a.config.Store == nil {
		return nil
	}
	s, err := a.config.Store.Settings().Load()
	if err != nil {
		return err
	}
	_, err = a.applySettings(s)
	return err
}

// Settings returns the current user settings.
func (a *App) Settings() store.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	adj := a.adjuster.Get()
	return store.Settings{
		Mode:       string(a.mode),
		Intensity:  a.intensity,
		Brightness: adj.Brightness,
		Contrast:   adj.Contrast,
		Mirror:     adj.Mirror,
		Enabled:    a.enabled,
	}
}

// UpdateSettings validates and applies s, then saves it. Out-of-range values
// are clamped; the applied settings are returned.
func (a *App) UpdateSettings(s store.Settings) (store.Settings, error) {
	applied, err := a.applySettings(s)
	if err != nil {
		return applied, err
	}
	a.save()
	return applied, nil
}

func (a *App) applySettings(s store.Settings) (store.Settings, error) {
	mode, err := dispatch.ParseMode(s.Mode)
	if err != nil {
		return a.Settings(), err
	}
	a.adjuster.Set(capture.Adjustment{Brightness: s.Brightness, Contrast: s.Contrast, Mirror: s.Mirror})

	a.mu.Lock()
	prev := a.mode
	a.mode = mode
	a.intensity = clampIntensity(s.Intensity)
	a.enabled = s.Enabled
	a.mu.Unlock()

	if prev != mode {
		a.modeChanged(prev, mode)
	}
	a.syncStatus()
	return a.Settings(), nil
}

// SetMode selects the active effect and saves it.
func (a *App) SetMode(mode dispatch.Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %q", dispatch.ErrUnknownMode, mode)
	}
	a.mu.Lock()
	prev := a.mode
	a.mode = mode
	a.mu.Unlock()

	if prev != mode {
		a.modeChanged(prev, mode)
		a.save()
	}
	a.syncStatus()
	return nil
}

// Mode returns the selected effect.
func (a *App) Mode() dispatch.Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// SetIntensity sets the effect intensity, clamped to [0, 1].
func (a *App) SetIntensity(v float64) {
	a.mu.Lock()
	a.intensity = clampIntensity(v)
	a.mu.Unlock()
	a.save()
	a.syncStatus()
}

// Intensity returns the effect intensity.
func (a *App) Intensity() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.intensity
}

// SetEnabled enables or disables hand detection and effect rendering.
// Disabled frames are still adjusted and streamed.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	a.enabled = enabled
	a.mu.Unlock()
	a.save()
	a.syncStatus()
}

// IsEnabled returns whether effects are rendered.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// HandleKey switches to the effect bound to key. Stored bindings take
// precedence over DefaultBindings.
func (a *App) HandleKey(key string) (dispatch.Mode, error) {
	if !store.ValidKey(key) {
		return a.Mode(), store.ErrInvalidKey
	}

	mode, ok := DefaultBindings[key]
	if a.config.Store != nil {
		b, err := a.config.Store.Bindings().GetByKey(key)
		switch {
		case err == nil:
			m, perr := dispatch.ParseMode(b.Mode)
			if perr != nil {
				return a.Mode(), perr
			}
			mode, ok = m, true
		case !errors.Is(err, store.ErrNotFound):
			return a.Mode(), err
		}
	}
	if !ok {
		return a.Mode(), fmt.Errorf("%w: %s", ErrUnboundKey, key)
	}
	return mode, a.SetMode(mode)
}

// save persists the current settings, logging failures.
func (a *App) save() {
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Settings().Save(a.Settings()); err != nil {
		log.Printf("Failed to save settings: %v", err)
	}
}

// SetDetector sets the hand detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// SetCamera replaces the camera. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	err := a.pluginMgr.Discover()
	a.syncStatus()
	return err
}

// Start opens the camera and begins the frame loop.
func (a *App) Start() error {
	a.mu.Lock()

	// Don't start if already running
	if a.stopCh != nil {
		a.mu.Unlock()
		return nil
	}

	if err := a.camera.Open(); err != nil {
		a.mu.Unlock()
		return err
	}

	a.stopCh = make(chan struct{})
	a.doneCh = make(chan struct{})
	go a.runPipeline(a.stopCh, a.doneCh)
	a.mu.Unlock()

	a.syncStatus()
	log.Println("Frame loop started")
	return nil
}

// Stop halts the frame loop, closes the camera and discards all effect and
// gesture state.
func (a *App) Stop() {
	a.mu.Lock()
	stopCh, doneCh := a.stopCh, a.doneCh
	a.stopCh, a.doneCh = nil, nil
	a.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if a.motion != nil {
		a.motion.Reset()
	}
	a.dispatcher.Reset()
	a.hooks.Wait()
	a.resetFrameStatus()

	log.Println("Frame loop stopped")
}

// Close stops the loop and releases the detector, motion gate and assets.
func (a *App) Close() {
	a.Stop()
	if a.motion != nil {
		a.motion.Close()
	}
	if d := a.Detector(); d != nil {
		if err := d.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}
	a.assets.Close()
}

// Running reports whether the frame loop is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// Status returns the snapshot taken after the last frame.
func (a *App) Status() Status {
	a.statusMu.RLock()
	defer a.statusMu.RUnlock()
	return a.status
}

// LatestFrame returns the last rendered frame as JPEG and its sequence
// number. The sequence is zero until a frame has been published.
func (a *App) LatestFrame() ([]byte, uint64) {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.frameJPG, a.frameSeq
}

func (a *App) publishFrame(jpg []byte) {
	a.frameMu.Lock()
	a.frameJPG = jpg
	a.frameSeq++
	a.frameMu.Unlock()
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// Adjuster returns the image adjuster.
func (a *App) Adjuster() *capture.Adjuster {
	return a.adjuster
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// Assets returns the loaded effect assets.
func (a *App) Assets() *assets.Set {
	return a.assets
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

func clampIntensity(v float64) float64 {
	return max(0, min(1, v))
}
