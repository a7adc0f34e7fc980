package models

import "gorm.io/gorm"

// Review is one student's rating of one course. The composite unique
// index enforces at most one review per (student, course) pair.
type Review struct {
	gorm.Model
	UserID   uint   `json:"user_id" gorm:"uniqueIndex:idx_student_course_review;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_student_course_review;not null"`
	User     User   `json:"-" gorm:"foreignKey:UserID"`
	Rating   int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Title    string `json:"title" gorm:"not null"`
	Comment  string `json:"comment" gorm:"type:text;not null"`
	IsHidden bool   `json:"is_hidden" gorm:"default:false"`
}
