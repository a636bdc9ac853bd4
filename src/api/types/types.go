package types

import "time"

// LedgerEvent is one row of the persisted ledger history. Payload is the
// JSON encoding of a ledger.Event; Seq and Digest are duplicated as columns
// so chain integrity is checkable without decoding every payload.
type LedgerEvent struct {
	Seq       uint64 `gorm:"primaryKey;autoIncrement:false"`
	Kind      string `gorm:"size:32;index;not null"`
	Actor     string `gorm:"size:128;index"`
	RecordID  uint64 `gorm:"index"`
	Payload   string `gorm:"type:text;not null"`
	Digest    string `gorm:"size:64;not null"`
	CreatedAt time.Time
}

// Member is a read-model row kept alongside the event log. The in-memory
// book is rebuilt from events at boot; this table serves ad-hoc SQL and
// operational tooling.
type Member struct {
	Address      string `gorm:"primaryKey;size:128"`
	Name         string `gorm:"size:64"`
	Role         string `gorm:"size:16;not null"`
	RegisteredAt int64  `gorm:"not null"`
	CreatedAt    time.Time
}

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}
