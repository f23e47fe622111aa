package entity

type Note struct {
	ID          int64    `gorm:"primaryKey" json:"id"`
	Title       string   `gorm:"not null" json:"title"`
	Content     string   `json:"content"`
	CategoryID  *int64   `gorm:"index" json:"categoryId"`
	UserID      int64    `gorm:"index;not null" json:"userId"` // References: users(id)
	IsPinned    bool     `gorm:"not null;default:false" json:"isPinned"`
	IsFavorite  bool     `gorm:"not null;default:false" json:"isFavorite"`
	IsArchived  bool     `gorm:"not null;default:false" json:"isArchived"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	Attachments []string `gorm:"serializer:json" json:"attachments"`
	ViewCount   int      `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt   int64    `gorm:"not null" json:"createdAt"`
	UpdatedAt   int64    `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`

	// Relations
	User     User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
}

// HasTag reports whether the note carries the given tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
