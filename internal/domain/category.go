package domain

// Category groups todos. Deleting one detaches its todos rather than
// deleting them.
type Category struct {
	ID       uint   `gorm:"primaryKey"`
	Name     string `gorm:"not null;index"`
	OwnerUID string `gorm:"not null;index"`
}

func (c *Category) OwnedBy(uid string) bool {
	return c.OwnerUID == uid
}
