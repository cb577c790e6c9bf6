package persistence

import (
	"context"
	"time"

	"github.com/civic-report/civic-report-service/internal/domain"
)

// SchemaVersion identifies the snapshot layout. A snapshot carrying a
// different version is discarded on load and the service starts from
// defaults; there is no migration path.
const SchemaVersion = 1

// Envelope is the persisted unit: the whole aggregate plus the credential
// table maintained by the auth collaborator. One slot, overwritten wholesale
// on every change, last write wins.
type Envelope struct {
	SchemaVersion int               `json:"schemaVersion"`
	SavedAt       time.Time         `json:"savedAt"`
	State         domain.AppState   `json:"state"`
	Credentials   map[string]string `json:"credentials"`
}

// Snapshotter loads and stores the envelope. Load reports ok=false when no
// usable prior snapshot exists; malformed data must fail soft to ok=false
// rather than surface an error at startup.
type Snapshotter interface {
	Load(ctx context.Context) (*Envelope, bool, error)
	Save(ctx context.Context, env *Envelope) error
	Close()
}

// NewEnvelope wraps current state and credentials for saving.
func NewEnvelope(st domain.AppState, credentials map[string]string) *Envelope {
	return &Envelope{
		SchemaVersion: SchemaVersion,
		SavedAt:       time.Now(),
		State:         st,
		Credentials:   credentials,
	}
}
