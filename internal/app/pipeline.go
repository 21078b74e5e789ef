package app

import (
	"context"
	"errors"
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/handmagic/internal/capture"
	"github.com/ayusman/handmagic/internal/detector"
	"github.com/ayusman/handmagic/internal/dispatch"
	"github.com/ayusman/handmagic/internal/gesture"
	"github.com/ayusman/handmagic/internal/plugin"
	"github.com/ayusman/handmagic/internal/store"
)

// EventModeChanged is raised when the selected effect changes. Its Hand is
// -1.
const EventModeChanged gesture.Event = "mode_changed"

// runPipeline is the frame loop. It reads at the camera frame rate until
// stopCh closes, then closes doneCh.
//
// Per frame:
// 1. Apply brightness, contrast and mirroring
// 2. Skip detection while the motion gate is closed
// 3. Detect hands
// 4. Dispatch to the active effect, which draws onto the frame
// 5. Fan out gesture events
// 6. Encode and publish the frame
func (a *App) runPipeline(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	fps := a.camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				if !errors.Is(err, capture.ErrNoFrame) {
					log.Printf("Error reading frame: %v", err)
				}
				continue
			}

			a.ProcessFrame(frame, time.Now().UnixMilli())
			frame.Close()
		}
	}
}

// ProcessFrame renders the active effect onto frame in place and publishes
// it. It must not be called concurrently with the running frame loop.
func (a *App) ProcessFrame(frame *gocv.Mat, now int64) dispatch.Result {
	if frame == nil || frame.Empty() {
		return dispatch.Result{}
	}

	a.adjuster.Apply(frame)

	a.mu.RLock()
	mode, intensity, enabled, det := a.mode, a.intensity, a.enabled, a.detector
	a.mu.RUnlock()

	var hands []detector.HandLandmarks
	if enabled {
		hands = a.detect(det, frame)
	} else {
		mode = dispatch.ModeNone
	}

	res := a.dispatcher.Process(frame, hands, now, mode, intensity)
	a.emit(res.Events)

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Error encoding frame: %v", err)
	} else {
		a.publishFrame(append([]byte(nil), buf.GetBytes()...))
		buf.Close()
	}

	a.recordFrame(res, now)
	return res
}

func (a *App) detect(det detector.Detector, frame *gocv.Mat) []detector.HandLandmarks {
	if det == nil {
		return nil
	}
	if a.motion != nil {
		if open, _ := a.motion.Open(frame); !open {
			return nil
		}
	}
	hands, err := det.Detect(frame)
	if err != nil {
		log.Printf("Error detecting hands: %v", err)
		return nil
	}
	return hands
}

// emit sends events to the event sink, the subscribed plugins and the event
// log.
func (a *App) emit(events []dispatch.Event) {
	if len(events) == 0 {
		return
	}

	records := make([]store.EventRecord, 0, len(events))
	for _, ev := range events {
		if a.events != nil {
			a.events.Broadcast(ev)
		}
		a.hooks.Fire(context.Background(), plugin.Request{
			Event: string(ev.Type),
			Mode:  string(ev.Mode),
			Hand:  ev.Hand,
			Time:  ev.Time,
		})
		records = append(records, store.EventRecord{
			Type:   string(ev.Type),
			Hand:   ev.Hand,
			Mode:   string(ev.Mode),
			TimeMs: ev.Time,
		})
		log.Printf("Gesture event: %s (hand %d, mode %s)", ev.Type, ev.Hand, ev.Mode)
	}

	if a.config.Store != nil {
		if err := a.config.Store.Events().Record(records); err != nil {
			log.Printf("Failed to record events: %v", err)
		}
	}
}

func (a *App) modeChanged(prev, next dispatch.Mode) {
	log.Printf("Effect changed: %s -> %s", prev, next)
	a.emit([]dispatch.Event{{
		Type: EventModeChanged,
		Hand: -1,
		Time: time.Now().UnixMilli(),
		Mode: next,
	}})
}

// recordFrame refreshes the frame-derived part of the status. Only the frame
// loop reads the dispatcher.
func (a *App) recordFrame(res dispatch.Result, now int64) {
	d := a.dispatcher
	a.statusMu.Lock()
	a.status.Hands = res.Hands
	a.status.HandOpen = d.HandOpen()
	a.status.HandSize = d.HandSize()
	a.status.SinceOpenAfterClose = d.SinceOpenAfterClose(now)
	a.status.SinceSpin = d.SinceSpin(now)
	a.status.Frames++
	a.statusMu.Unlock()
	a.syncStatus()
}

// resetFrameStatus clears the frame-derived status after Stop.
func (a *App) resetFrameStatus() {
	a.statusMu.Lock()
	a.status.Hands = 0
	a.status.HandOpen = false
	a.status.HandSize = 0
	a.status.SinceOpenAfterClose = -1
	a.status.SinceSpin = -1
	a.statusMu.Unlock()
	a.syncStatus()
}

// syncStatus copies the settings and loop state into the status.
func (a *App) syncStatus() {
	a.mu.RLock()
	running := a.stopCh != nil
	mode, intensity, enabled := a.mode, a.intensity, a.enabled
	a.mu.RUnlock()
	plugins := len(a.pluginMgr.List())

	a.statusMu.Lock()
	a.status.Running = running
	a.status.Mode = mode
	a.status.Intensity = intensity
	a.status.Enabled = enabled
	a.status.Plugins = plugins
	a.statusMu.Unlock()
}
