// Package tray provides the system tray menu for HandMagic: an effect picker,
// an enable toggle and shortcuts to the browser view.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/handmagic/internal/app"
	"github.com/ayusman/handmagic/internal/dispatch"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle func(enabled bool)
	onMode   func(mode dispatch.Mode)
	onOpen   func()
	onQuit   func()
	enabled  bool
	mode     dispatch.Mode
	mu       sync.RWMutex

	// Menu items stored for later updates
	menuToggle    *systray.MenuItem
	menuEffect    *systray.MenuItem
	menuLastEvent *systray.MenuItem
	modeItems     map[dispatch.Mode]*systray.MenuItem
}

// New creates a new Tray showing the given mode and enabled state.
func New(mode dispatch.Mode, enabled bool) *Tray {
	return &Tray{
		enabled:   enabled,
		mode:      mode,
		modeItems: make(map[dispatch.Mode]*systray.MenuItem),
	}
}

// OnToggle sets the callback function to be called when the enabled state is toggled.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnMode sets the callback function to be called when an effect is picked.
func (t *Tray) OnMode(fn func(mode dispatch.Mode)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onMode = fn
}

// OnOpen sets the callback function to be called when the open-in-browser item is clicked.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("HandMagic")
	systray.SetTooltip("HandMagic gesture effects")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem(toggleTitle(t.enabled), "Toggle hand tracking and effects")
	systray.AddSeparator()

	t.menuEffect = systray.AddMenuItem(effectTitle(t.mode), "Choose the effect")
	for _, m := range dispatch.Modes() {
		t.modeItems[m] = t.menuEffect.AddSubMenuItemCheckbox(m.Label(), "Switch to "+m.Label(), m == t.mode)
	}

	t.menuLastEvent = systray.AddMenuItem("Last: none", "Last gesture event")
	t.menuLastEvent.Disable()
	systray.AddSeparator()
	t.mu.Unlock()

	menuOpen := systray.AddMenuItem("Open in Browser...", "Open the live view in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit HandMagic")

	// Each effect item gets its own forwarding goroutine
	for m, item := range t.modeItems {
		go func() {
			for range item.ClickedCh {
				t.handleMode(m)
			}
		}()
	}

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// handleToggle handles the toggle menu item click.
func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.updateToggle()
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

// handleMode handles a click on an effect item.
func (t *Tray) handleMode(m dispatch.Mode) {
	t.mu.Lock()
	t.setModeLocked(m)
	callback := t.onMode
	t.mu.Unlock()

	if callback != nil {
		callback(m)
	}
}

// handleOpen handles the open-in-browser menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetMode checks the item of m without calling the mode callback. Use it
// when the mode changed elsewhere.
func (t *Tray) SetMode(m dispatch.Mode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setModeLocked(m)
}

func (t *Tray) setModeLocked(m dispatch.Mode) {
	t.mode = m
	for mode, item := range t.modeItems {
		if mode == m {
			item.Check()
		} else {
			item.Uncheck()
		}
	}
	if t.menuEffect != nil {
		t.menuEffect.SetTitle(effectTitle(m))
	}
}

// SetEnabled updates the toggle without calling the toggle callback.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	t.updateToggle()
}

func (t *Tray) updateToggle() {
	if t.menuToggle != nil {
		t.menuToggle.SetTitle(toggleTitle(t.enabled))
	}
}

// SetLastEvent updates the last event display in the menu.
func (t *Tray) SetLastEvent(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastEvent != nil {
		if name == "" {
			t.menuLastEvent.SetTitle("Last: none")
		} else {
			t.menuLastEvent.SetTitle("Last: " + name)
		}
	}
}

// Broadcast follows the app's event stream: mode changes move the check mark
// and gesture events show up as the last event.
func (t *Tray) Broadcast(v any) {
	ev, ok := v.(dispatch.Event)
	if !ok {
		return
	}
	if ev.Type == app.EventModeChanged {
		t.SetMode(ev.Mode)
		return
	}
	t.SetLastEvent(string(ev.Type))
}

// Mode returns the checked effect.
func (t *Tray) Mode() dispatch.Mode {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.mode
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

func toggleTitle(enabled bool) string {
	if enabled {
		return "● Enabled"
	}
	return "○ Disabled"
}

func effectTitle(m dispatch.Mode) string {
	return "Effect: " + m.Label()
}
