package models

type User struct {
	BaseModel
	Username string  `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email    *string `gorm:"type:text"                      json:"email,omitempty"`
}
