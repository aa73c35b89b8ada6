// Package export hands finished artifacts to a destination and releases the
// transient resources staged for them.
package export

import (
	"fmt"
	"time"
)

// Handle identifies one saved artifact.
type Handle struct {
	// Name is the suggested file name the artifact was saved under.
	Name string
	// Path is where the artifact was persisted. Empty if persisting failed.
	Path string
	// Blob is the transient staging location. Empty once nothing needs releasing.
	Blob string
}

// Sink persists artifact bytes. Release frees whatever Save staged and must be
// safe to call on a zero Handle.
type Sink interface {
	Save(data []byte, suggestedName string) (Handle, error)
	Release(h Handle) error
}

// SuggestedName returns "<prefix>-<unix millis>.gif".
func SuggestedName(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = "animation"
	}
	return fmt.Sprintf("%s-%d.gif", prefix, t.UnixMilli())
}
