package store

import "time"

// Status is the last lifecycle event observed for a session.
type Status string

const (
	StatusInitializing Status = "initializing"
	StatusQR           Status = "qr"
	StatusReady        Status = "ready"
	StatusDisconnected Status = "disconnected"
	StatusAuthFailure  Status = "auth_failure"
)

func (s Status) String() string { return string(s) }

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusInitializing, StatusQR, StatusReady, StatusDisconnected, StatusAuthFailure:
		return true
	}
	return false
}

// Session is the persisted record of one messaging account. The session ID is
// the document key, so there is at most one record per ID.
type Session struct {
	ID              string     `bson:"_id" json:"sessionId"`
	Status          Status     `bson:"status" json:"status"`
	LastQRCode      string     `bson:"lastQRCode,omitempty" json:"lastQRCode,omitempty"`
	LastConnectedAt *time.Time `bson:"lastConnectedAt,omitempty" json:"lastConnectedAt,omitempty"`
	// Serialized is written by the session manager and opaque to everyone else.
	Serialized string    `bson:"serialized,omitempty" json:"-"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Patch is a partial update. Nil fields are left as they are.
type Patch struct {
	Status          *Status
	LastQRCode      *string
	ClearQRCode     bool
	LastConnectedAt *time.Time
	Serialized      *string
}

// StatusPatch sets the status. Any status other than qr also clears the
// pairing code, which is only valid while the session waits for a scan.
func StatusPatch(s Status) Patch {
	return Patch{Status: &s, ClearQRCode: s != StatusQR}
}

// QRPatch records a pending pairing challenge.
func QRPatch(dataURI string) Patch {
	s := StatusQR
	return Patch{Status: &s, LastQRCode: &dataURI}
}

// ReadyPatch marks a successful authentication at the given time.
func ReadyPatch(at time.Time, serialized string) Patch {
	s := StatusReady
	return Patch{
		Status:          &s,
		ClearQRCode:     true,
		LastConnectedAt: &at,
		Serialized:      &serialized,
	}
}

func (p Patch) apply(s *Session) {
	if p.Status != nil {
		s.Status = *p.Status
	}
	if p.ClearQRCode {
		s.LastQRCode = ""
	} else if p.LastQRCode != nil {
		s.LastQRCode = *p.LastQRCode
	}
	if p.LastConnectedAt != nil {
		t := *p.LastConnectedAt
		s.LastConnectedAt = &t
	}
	if p.Serialized != nil {
		s.Serialized = *p.Serialized
	}
}
