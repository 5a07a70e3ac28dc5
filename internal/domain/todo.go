package domain

import "time"

// Todo is a single task owned by exactly one user.
type Todo struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null;index"`
	Description *string
	IsCompleted bool     `gorm:"not null"`
	Priority    Priority `gorm:"type:varchar(16);not null"`
	DueDate     *time.Time
	CategoryID  *uint     `gorm:"index"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE"`
	OwnerUID    string    `gorm:"not null;index"` // Identity provider subject, never changes
	CreatedAt   time.Time `gorm:"not null"`
}

// OwnedBy reports whether uid is the todo's owner.
func (t *Todo) OwnedBy(uid string) bool {
	return t.OwnerUID == uid
}
