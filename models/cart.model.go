package models

import "time"

// CartItem is a course a user intends to buy. The same row serves as the
// user's pending enrollment until a payment for the course completes.
type CartItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_cart_user_course" json:"userId"`
	Email       string    `gorm:"type:varchar(255);index;not null" json:"email"`
	CourseID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_course" json:"courseId"`
	CourseTitle string    `gorm:"default:''" json:"courseTitle"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
}
