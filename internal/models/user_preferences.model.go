package models

import "gorm.io/datatypes"

// UserPreferences holds what a user declared at onboarding, before any rating exists.
type UserPreferences struct {
	BaseRecordModel
	UserID    int                         `gorm:"type:int;not null;uniqueIndex:idx_user_preferences_user" json:"userId"`
	Genres    datatypes.JSONSlice[string] `gorm:"type:jsonb"                                               json:"genres"`
	Directors datatypes.JSONSlice[string] `gorm:"type:jsonb"                                               json:"directors"`
	Actors    datatypes.JSONSlice[string] `gorm:"type:jsonb"                                               json:"actors"`
}
