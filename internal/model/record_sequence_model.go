package model

import "time"

// RecordSequence is a named counter row. Identifier allocation increments it
// inside a transaction so concurrent creators never observe the same value.
type RecordSequence struct {
	Name      string    `gorm:"type:varchar(32);primaryKey"`
	Value     int64     `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (RecordSequence) TableName() string {
	return "record_sequences"
}
