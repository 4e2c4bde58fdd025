package models

type Review struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	CourseID uint   `gorm:"index" json:"courseId"`
	Author   string `gorm:"default:''" json:"author"`
	Rating   int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Text     string `gorm:"type:text;default:''" json:"text"`
}
