package models

import "time"

// Snapshot is one key/value entry of the durable state store.
type Snapshot struct {
	Key       string    `gorm:"column:snapshot_key;primaryKey;size:128" json:"key"`
	Payload   string    `gorm:"type:text;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

const (
	SnapshotKeyUser           = "mission_bridge:user"
	SnapshotKeyCurrentMission = "mission_bridge:current_mission"
)
