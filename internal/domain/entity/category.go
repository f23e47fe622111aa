package entity

// DefaultCategoryColor is used whenever a category is created without an
// explicit color.
const DefaultCategoryColor = "#3498db"

type Category struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Color       string `gorm:"not null" json:"color"`
	Description string `json:"description"`
	UserID      int64  `gorm:"index;not null" json:"userId"` // References: users(id)
	CreatedAt   int64  `gorm:"not null" json:"createdAt"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`

	// Relations
	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}
