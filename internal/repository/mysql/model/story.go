package model

// Story maps the catalog table owned by the content subsystem. This module
// only reads identifiers from it.
type Story struct {
	ID    int64  `gorm:"primaryKey"`
	Title string `gorm:"type:varchar(255)"`
}

func (Story) TableName() string {
	return "stories"
}
