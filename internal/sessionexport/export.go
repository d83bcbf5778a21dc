// Package sessionexport snapshots a whole session (trials plus behavior
// events) into a timestamped JSON document and uploads it to object
// storage, or hands it back for download when no storage is configured.
package sessionexport

import (
	"context"
	"time"

	"ideaforge/internal/types"
	"ideaforge/internal/util/jsonutil"
)

// Snapshot is the exported document.
type Snapshot struct {
	ExportedAt time.Time             `json:"exported_at"`
	Trials     []types.Trial         `json:"trials"`
	Events     []types.BehaviorEvent `json:"events,omitempty"`
}

// Sink receives finished exports.
type Sink interface {
	Put(ctx context.Context, name string, content []byte) error
}

// Filename returns the canonical export name for a point in time,
// e.g. "sessions-20260901-153045.json".
func Filename(at time.Time) string {
	return "sessions-" + at.Format("20060102-150405") + ".json"
}

// Exporter renders snapshots and pushes them to a sink.
type Exporter struct {
	sink Sink
	now  func() time.Time
}

// New builds an exporter. A nil sink is allowed; Export then only
// renders the document.
func New(sink Sink) *Exporter {
	return &Exporter{sink: sink, now: time.Now}
}

// Export writes the snapshot to the sink (when present) and returns the
// filename and rendered bytes.
func (e *Exporter) Export(ctx context.Context, trials []types.Trial, events []types.BehaviorEvent) (string, []byte, error) {
	at := e.now().UTC()
	snap := Snapshot{ExportedAt: at, Trials: trials, Events: events}
	body, err := jsonutil.MarshalNoEscapeIndent(snap, "", "  ")
	if err != nil {
		return "", nil, err
	}
	name := Filename(at)
	if e.sink != nil {
		if err := e.sink.Put(ctx, name, body); err != nil {
			return "", nil, err
		}
	}
	return name, body, nil
}
