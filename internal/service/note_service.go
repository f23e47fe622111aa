package service

import (
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"notekeep/internal/contract"
	"notekeep/internal/domain/entity"
	"notekeep/internal/infrastructure/bucket"
	"notekeep/internal/storage"
	"notekeep/internal/utils"
	"notekeep/internal/utils/apierror"
)

type NoteService struct {
	Store    storage.Provider
	Bucket   bucket.ObjectStorage
	Validate *validator.Validate
}

func NewNoteService(store storage.Provider, objects bucket.ObjectStorage, validate *validator.Validate) *NoteService {
	return &NoteService{
		Store:    store,
		Bucket:   objects,
		Validate: validate,
	}
}

func (n *NoteService) GetNotes(actor *entity.User, filter storage.NoteFilter) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	notes, err := n.Store.Notes().FindByUser(actor.ID, filter)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, len(notes))
	for i, note := range notes {
		resp[i] = toNoteResponse(note)
	}
	return resp, nil
}

func (n *NoteService) GetNoteByID(actor *entity.User, noteID int64) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, err := n.Store.Notes().FindByID(noteID, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}
	return toNoteResponse(note), nil
}

func (n *NoteService) CreateNote(actor *entity.User, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	title := req.Title
	if title == "" {
		title = contract.DefaultNoteTitle
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	now := utils.NowUTC()
	note := &entity.Note{
		Title:       title,
		Content:     req.Content,
		CategoryID:  req.CategoryID,
		UserID:      actor.ID,
		IsPinned:    req.IsPinned,
		Tags:        tags,
		Attachments: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := n.Store.Notes().Create(note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}
	return toNoteResponse(note), nil
}

func (n *NoteService) UpdateNote(actor *entity.User, noteID int64, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := n.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	note, err := n.Store.Notes().Update(noteID, actor.ID, storage.NoteChanges{
		Title:         req.Title,
		Content:       req.Content,
		CategoryID:    req.CategoryID,
		ClearCategory: req.ClearCategory,
		IsPinned:      req.IsPinned,
		IsFavorite:    req.IsFavorite,
		IsArchived:    req.IsArchived,
		Tags:          req.Tags,
	})
	if err != nil {
		return nil, mapStorageError(err, "failed to update note")
	}
	return toNoteResponse(note), nil
}

// SetNoteFlags backs the favorite/archive shortcut endpoints.
func (n *NoteService) SetNoteFlags(actor *entity.User, noteID int64, req *contract.NoteFlagRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, err := n.Store.Notes().Update(noteID, actor.ID, storage.NoteChanges{
		IsFavorite: req.IsFavorite,
		IsArchived: req.IsArchived,
	})
	if err != nil {
		return nil, mapStorageError(err, "failed to update note flags")
	}
	return toNoteResponse(note), nil
}

func (n *NoteService) DeleteNote(actor *entity.User, noteID int64) apierror.ErrorResponse {
	if err := n.Store.Notes().Delete(noteID, actor.ID); err != nil {
		return mapStorageError(err, "failed to delete note")
	}
	return nil
}

// AddAttachment uploads the file to the object bucket and appends its key to
// the note's attachment list.
func (n *NoteService) AddAttachment(actor *entity.User, noteID int64, fileHeader *multipart.FileHeader) (*contract.NoteResponse, apierror.ErrorResponse) {
	if fileHeader.Size > contract.MaxAttachmentSizeBytes {
		return nil, apierror.NewSimple(413, "Attachment exceeds the %d byte limit", contract.MaxAttachmentSizeBytes)
	}

	note, err := n.Store.Notes().FindByID(noteID, actor.ID)
	if err != nil {
		log.Errorf("failed to fetch note: %v", err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}

	data, apierr := readAttachment(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	filename := uuid.NewString() + filepath.Ext(fileHeader.Filename)
	key, err := n.Bucket.UploadFile(data, filename)
	if err != nil {
		log.Errorf("failed to upload attachment: %v", err)
		return nil, apierror.InternalServerError
	}

	updated, err := n.Store.Notes().Update(noteID, actor.ID, storage.NoteChanges{
		Attachments: append(note.Attachments, key),
	})
	if err != nil {
		return nil, mapStorageError(err, "failed to attach file to note")
	}
	return toNoteResponse(updated), nil
}

func readAttachment(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}
	return data, nil
}

func toNoteResponse(note *entity.Note) *contract.NoteResponse {
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	attachments := note.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	return &contract.NoteResponse{
		ID:          note.ID,
		Title:       note.Title,
		Content:     note.Content,
		CategoryID:  note.CategoryID,
		UserID:      note.UserID,
		IsPinned:    note.IsPinned,
		IsFavorite:  note.IsFavorite,
		IsArchived:  note.IsArchived,
		Tags:        tags,
		Attachments: attachments,
		ViewCount:   note.ViewCount,
		CreatedAt:   utils.FormatEpoch(note.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(note.UpdatedAt),
	}
}
