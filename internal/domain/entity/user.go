package entity

import "time"

type User struct {
	ID          int64 `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Username    string `gorm:"uniqueIndex"`
	Email       string
	IsSuperuser bool `gorm:"not null;default:false"`
	IsBanned    bool `gorm:"not null;default:false"`
}

func (u *User) String() string {
	return u.Username
}
