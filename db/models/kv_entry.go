package models

// KVEntry backs the key/value persistence layer: one row per entity
// collection, value holds the full JSON-encoded collection.
type KVEntry struct {
	Key       string `gorm:"column:key;type:text;primaryKey"`
	Value     []byte `gorm:"column:value;not null"`
	UpdatedAt int64  `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string { return "kv_entries" }
