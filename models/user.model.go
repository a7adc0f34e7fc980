package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Name      string     `json:"name" gorm:"not null"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"` // stored lowercased
	Password  string     `json:"-" gorm:"not null"`
	Role      string     `json:"role" gorm:"default:'student'"` // student, teacher, admin
	Avatar    string     `json:"avatar" gorm:"default:''"`
	Bio       string     `json:"bio" gorm:"type:text;default:''"`
	Skills    string     `json:"skills" gorm:"type:text;default:''"`    // comma separated
	Interests string     `json:"interests" gorm:"type:text;default:''"` // comma separated
	Location  string     `json:"location" gorm:"default:''"`
	Website   string     `json:"website" gorm:"default:''"`
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	LastLogin *time.Time `json:"last_login"`
}
