package contract

const DefaultNoteTitle = "Untitled Note"

// MaxAttachmentSizeBytes caps a single uploaded attachment.
const MaxAttachmentSizeBytes = 5 * 1024 * 1024

type NoteResponse struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	CategoryID  *int64   `json:"categoryId"`
	UserID      int64    `json:"userId"`
	IsPinned    bool     `json:"isPinned"`
	IsFavorite  bool     `json:"isFavorite"`
	IsArchived  bool     `json:"isArchived"`
	Tags        []string `json:"tags"`
	Attachments []string `json:"attachments"`
	ViewCount   int      `json:"viewCount"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

type CreateNoteRequest struct {
	Title      string   `json:"title" validate:"omitempty,max=200"`
	Content    string   `json:"content" validate:"omitempty,max=1000000"`
	CategoryID *int64   `json:"categoryId" validate:"omitempty,min=1"`
	IsPinned   bool     `json:"isPinned"`
	Tags       []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,max=30,nospaces"`
}

type UpdateNoteRequest struct {
	Title         *string  `json:"title" validate:"omitempty,max=200"`
	Content       *string  `json:"content" validate:"omitempty,max=1000000"`
	CategoryID    *int64   `json:"categoryId" validate:"omitempty,min=1"`
	ClearCategory bool     `json:"clearCategory"`
	IsPinned      *bool    `json:"isPinned"`
	IsFavorite    *bool    `json:"isFavorite"`
	IsArchived    *bool    `json:"isArchived"`
	Tags          []string `json:"tags" validate:"omitempty,max=50,nodupes,dive,required,max=30,nospaces"`
}

// NoteFlagRequest backs the favorite/archive shortcut endpoints.
type NoteFlagRequest struct {
	IsFavorite *bool `json:"isFavorite"`
	IsArchived *bool `json:"isArchived"`
}
