package models

import "time"

// The kiosk persists its client state to a single-file SQLite store. Each
// record type below holds one piece of durable state; all of them are
// singleton rows except the table snapshot, which is replaced wholesale on
// every refresh.

// SchemaMeta tracks the store's schema version so migrations run exactly
// once, keyed by the stored number rather than by probing legacy shapes.
type SchemaMeta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Version   int       `gorm:"not null" json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SchemaMeta model
func (SchemaMeta) TableName() string {
	return "schema_meta"
}

// SessionRecord is the persisted session blob.
type SessionRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Payload   string    `gorm:"not null" json:"payload"` // JSON-encoded Session
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the SessionRecord model
func (SessionRecord) TableName() string {
	return "session_state"
}

// CartRecord is the persisted cart blob plus the timestamp the expiry
// window is measured from.
type CartRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Payload   string    `gorm:"not null" json:"payload"` // JSON-encoded Cart
	SavedAt   time.Time `gorm:"not null" json:"saved_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the CartRecord model
func (CartRecord) TableName() string {
	return "cart_state"
}

// VenueRecord is the persisted venue open/closed flag.
type VenueRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Open      bool      `gorm:"not null" json:"open"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the VenueRecord model
func (VenueRecord) TableName() string {
	return "venue_state"
}

// TableSnapshotRecord caches the last table list fetched from the remote
// API, so staff views have something to show before the first poll lands.
type TableSnapshotRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Payload   string    `gorm:"not null" json:"payload"` // JSON-encoded []Table
	FetchedAt time.Time `gorm:"not null" json:"fetched_at"`
}

// TableName specifies the table name for the TableSnapshotRecord model
func (TableSnapshotRecord) TableName() string {
	return "table_snapshot"
}

// LegacyStateRecord is the v1 store shape: an untyped key/value table that
// earlier kiosk builds wrote. It exists only so the v1→v2 migration can
// read it; new code never touches it.
type LegacyStateRecord struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Key   string `gorm:"column:key;uniqueIndex" json:"key"`
	Value string `gorm:"column:value" json:"value"`
}

// TableName specifies the table name for the LegacyStateRecord model
func (LegacyStateRecord) TableName() string {
	return "kiosk_state"
}
