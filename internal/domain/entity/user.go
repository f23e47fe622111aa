package entity

// User is the general basic structure of all users across the platform.
//
// The gorm tags drive the relational schema (snake_case columns), the json
// tags drive the file-backend documents (camelCase fields); everything above
// the storage boundary only ever sees this one canonical shape.
//
// No column carries a non-zero schema default: gorm drops zero values of
// defaulted columns from the INSERT, silently replacing an explicit false
// with the default. Callers set every field themselves.
type User struct {
	ID          int64       `gorm:"primaryKey" json:"id"`
	Username    string      `gorm:"uniqueIndex;not null" json:"username"`
	Email       string      `gorm:"uniqueIndex;not null" json:"email"`
	Password    string      `gorm:"not null" json:"password"` // bcrypt digest, never exposed by contracts
	IsAdmin     bool        `gorm:"not null" json:"isAdmin"`
	IsActive    bool        `gorm:"not null" json:"isActive"`
	Preferences Preferences `gorm:"serializer:json" json:"preferences"`
	LastLogin   *int64      `json:"lastLogin"`
	CreatedAt   int64       `gorm:"not null" json:"createdAt"`
	UpdatedAt   int64       `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

// Preferences is an opaque key-value document attached to every user.
type Preferences map[string]any

// DefaultPreferences returns the preferences assigned at registration.
func DefaultPreferences() Preferences {
	return Preferences{
		"theme":    "system",
		"markdown": true,
	}
}
