package domain

import "time"

// BroadcastRun records one completed message fan-out invocation.
type BroadcastRun struct {
	ID           string `gorm:"primaryKey"`
	MessageID    string `gorm:"index;not null"`
	Notified     int
	SentCount    int
	FailureCount int
	CreatedAt    time.Time
}

// SweepRun records one completed token sweep invocation.
type SweepRun struct {
	ID            string `gorm:"primaryKey"`
	Checked       int
	Deleted       int
	Batches       int
	FailedBatches int
	CreatedAt     time.Time
}
