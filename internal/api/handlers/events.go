package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/skillproof/server/internal/realtime"
)

// streamSnapshots turns a hub subscription into a server-sent event stream.
// The current snapshot goes out immediately, then one event per change;
// closing the connection unsubscribes and stops delivery.
func streamSnapshots(w http.ResponseWriter, r *http.Request, path string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := realtime.Feed.Subscribe(path)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			data, err := json.Marshal(snap)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// GET /api/v1/events/profiles — the employer view, open to anyone.
func ProfileEvents(w http.ResponseWriter, r *http.Request) {
	streamSnapshots(w, r, realtime.PathProfiles)
}

// GET /api/v1/events/users — raw users subtree, admin only.
func UserEvents(w http.ResponseWriter, r *http.Request) {
	streamSnapshots(w, r, realtime.PathUsers)
}

// GET /api/v1/events/certificates — raw certificates subtree, admin only.
func CertificateEvents(w http.ResponseWriter, r *http.Request) {
	streamSnapshots(w, r, realtime.PathCertificates)
}
