package types

import (
	"time"
)

// BaseModel carries the local bookkeeping timestamps shared by every mirrored record.
// CreatedAt is written once on insert and never overwritten.
type BaseModel struct {
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func GetDefaultBaseModel() BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		CreatedAt: now,
		UpdatedAt: now,
	}
}
