package entities

// SnapshotStatus is what a display sink should show.
type SnapshotStatus string

const (
	SnapshotOK          SnapshotStatus = "ok"
	SnapshotUnavailable SnapshotStatus = "unavailable"
)

// Snapshot es el evento que se empuja a los sinks tras cada refresh con fetch
type Snapshot struct {
	Status    SnapshotStatus     `json:"status"`
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates,omitempty"`
	Rendered  string             `json:"rendered"`
	Title     string             `json:"title,omitempty"`
	FetchedAt int64              `json:"fetched_at,omitempty"` // epoch seconds, provider
	StoredAt  int64              `json:"stored_at,omitempty"`  // epoch milliseconds, local
	Error     string             `json:"error,omitempty"`
	ErrorKind string             `json:"error_kind,omitempty"`
}

// Available reports whether the snapshot carries fresh rates.
func (s Snapshot) Available() bool {
	return s.Status == SnapshotOK
}
