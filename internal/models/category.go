package models

// Category is a label for records with Chinese and English display names
// and an icon code. ParentID forms a self-referential tree; root categories
// have a nil parent. Parent existence is validated in the category service,
// not by a foreign key.
type Category struct {
	Base
	ParentID *uint  `gorm:"index" json:"parent_id"`
	Icon     int    `json:"icon"`
	CnName   string `gorm:"not null" json:"cn_name"`
	EnName   string `gorm:"not null" json:"en_name"`
}
