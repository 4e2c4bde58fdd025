package models

import "gorm.io/gorm"

// Course approval status
const (
	CourseStatusPending  = "pending"
	CourseStatusApproved = "approved"
)

// Course is a class offered by an instructor. Capacity is fixed at creation;
// only the split between AvailableSeats and Enrolled changes afterwards.
type Course struct {
	gorm.Model
	InstructorID    uint    `gorm:"index;not null" json:"instructorId"`
	InstructorName  string  `gorm:"default:''" json:"instructorName"`
	InstructorEmail string  `gorm:"type:varchar(255);index" json:"instructorEmail"`
	Title           string  `gorm:"not null" json:"title"`
	Description     string  `gorm:"type:text" json:"description"`
	ImageURL        string  `gorm:"default:''" json:"imageUrl"`
	Price           float64 `gorm:"not null;default:0" json:"price"`
	Capacity        int     `gorm:"not null;check:capacity >= 0" json:"capacity"`
	AvailableSeats  int     `gorm:"not null;check:available_seats >= 0" json:"availableSeats"`
	Enrolled        int     `gorm:"not null;default:0;check:enrolled >= 0" json:"enrolled"`
	Status          string  `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
}
