package server

import (
	"fmt"
	"net/http"
	"time"
)

// pollInterval is how often the stream checks for a new frame.
const pollInterval = 10 * time.Millisecond

// FrameSource provides the most recent rendered frame as JPEG. The sequence
// number increases with every published frame and is zero before the first.
type FrameSource interface {
	LatestFrame() ([]byte, uint64)
}

// StreamHandler serves the rendered frames as MJPEG.
type StreamHandler struct {
	source FrameSource
}

// NewStreamHandler creates a new StreamHandler reading from source.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{source: source}
}

// ServeHTTP streams each new frame until the client goes away. Frames are
// never sent twice; a slow client skips frames.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		jpg, seq := h.source.LatestFrame()
		if seq == last || len(jpg) == 0 {
			continue
		}
		last = seq

		if err := writePart(w, jpg); err != nil {
			return
		}
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}

func writePart(w http.ResponseWriter, jpg []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(jpg)); err != nil {
		return err
	}
	if _, err := w.Write(jpg); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}
