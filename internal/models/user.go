package models

import "time"

// User represents a dashboard user
type User struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"unique;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role" gorm:"not null;default:'User'"`
	Status    string    `json:"status" gorm:"not null;default:'Active'"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}
