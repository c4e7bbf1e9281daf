package service

import (
	"context"
	"strings"

	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/events"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"
	"simplecms/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"github.com/microcosm-cc/bluemonday"
)

type NoteRepository interface {
	FindAll(ctx context.Context) ([]*entity.Note, error)
	FindByUserID(ctx context.Context, userID string) ([]*entity.Note, error)
	FindByID(ctx context.Context, id string) (*entity.Note, error)
	Save(ctx context.Context, note *entity.Note) error
	Delete(ctx context.Context, note *entity.Note) error
}

type DefaultNoteService struct {
	NoteRepo NoteRepository
	UserRepo UserRepository
	Notifier ChangeNotifier
	Validate *validator.Validate

	notes     accessGuard
	sanitizer *bluemonday.Policy
}

func NewNoteService(
	registry *schema.Registry,
	noteRepo NoteRepository,
	userRepo UserRepository,
	notifier ChangeNotifier,
	validate *validator.Validate,
) *DefaultNoteService {
	return &DefaultNoteService{
		NoteRepo:  noteRepo,
		UserRepo:  userRepo,
		Notifier:  notifier,
		Validate:  validate,
		notes:     newAccessGuard(registry, schema.NoteList),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// GetNotes returns every note the caller can read, which for notes means their own.
func (n *DefaultNoteService) GetNotes(ctx context.Context, actor *policy.Authentication) ([]*contract.NoteResponse, apierror.ErrorResponse) {
	notes, err := n.NoteRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.NoteResponse, 0)
	for _, note := range notes {
		if n.notes.canRead(actor, note) {
			resp = append(resp, n.toNoteResponse(note))
		}
	}
	return resp, nil
}

func (n *DefaultNoteService) GetNote(ctx context.Context, actor *policy.Authentication, id string) (*contract.NoteResponse, apierror.ErrorResponse) {
	note, apierr := n.fetchNote(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = n.notes.check(policy.OpRead, actor, note); apierr != nil {
		return nil, apierr
	}
	return n.toNoteResponse(note), nil
}

func (n *DefaultNoteService) CreateNote(ctx context.Context, actor *policy.Authentication, req *contract.CreateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	req.Note = n.clean(req.Note)
	if err := n.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	note := &entity.Note{
		Note:   req.Note,
		UserID: defaultOwner(req.User, actor),
	}

	if apierr := n.notes.checkFields(policy.OpCreate, actor, note, []string{"note", "user"}); apierr != nil {
		return nil, apierr
	}

	if apierr := checkUserExists(ctx, n.UserRepo, note.UserID); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	note.ID = uid.Generate()
	note.CreatedAt = now
	note.UpdatedAt = now

	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("failed to save note: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := n.toNoteResponse(note)
	go n.dispatchToOwners(&events.NoteCreated{NoteResponse: resp}, note.UserID)
	return resp, nil
}

func (n *DefaultNoteService) UpdateNote(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdateNoteRequest) (*contract.NoteResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if req.Note != nil {
		cleaned := n.clean(*req.Note)
		req.Note = &cleaned
	}
	if err := n.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	note, apierr := n.fetchNote(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = n.notes.checkFields(policy.OpUpdate, actor, note, req.Fields()); apierr != nil {
		return nil, apierr
	}

	previousOwner := note.UserID
	if req.User != nil {
		owner := req.User
		if *owner == "" {
			owner = nil
		}
		if apierr = checkUserExists(ctx, n.UserRepo, owner); apierr != nil {
			return nil, apierr
		}
		note.UserID = owner
	}

	if req.Note != nil {
		note.Note = *req.Note
	}

	note.UpdatedAt = utils.NowUTC()
	if err := n.NoteRepo.Save(ctx, note); err != nil {
		log.Errorf("failed to update note %s: %v", note.ID, err)
		return nil, apierror.InternalServerError
	}

	resp := n.toNoteResponse(note)
	go n.dispatchToOwners(&events.NoteUpdated{NoteResponse: resp}, previousOwner, note.UserID)
	return resp, nil
}

func (n *DefaultNoteService) DeleteNote(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse {
	note, apierr := n.fetchNote(ctx, id)
	if apierr != nil {
		return apierr
	}

	if apierr = n.notes.check(policy.OpDelete, actor, note); apierr != nil {
		return apierr
	}

	if err := n.NoteRepo.Delete(ctx, note); err != nil {
		log.Errorf("failed to delete note %s: %v", note.ID, err)
		return apierror.InternalServerError
	}

	go n.dispatchToOwners(&events.NoteDeleted{NoteID: note.ID}, note.UserID, nil)
	return nil
}

func (n *DefaultNoteService) fetchNote(ctx context.Context, id string) (*entity.Note, apierror.ErrorResponse) {
	note, err := n.NoteRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch note %s: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if note == nil {
		return nil, apierror.NotFoundError
	}
	return note, nil
}

// dispatchToOwners pushes evt to each distinct, non-empty owner.
func (n *DefaultNoteService) dispatchToOwners(evt events.SocketEvent, owners ...*string) {
	seen := make(map[string]bool, len(owners))
	for _, owner := range owners {
		if owner == nil || *owner == "" || seen[*owner] {
			continue
		}
		seen[*owner] = true
		n.Notifier.Dispatch(context.Background(), *owner, evt)
	}
}

// clean strips every HTML tag from note text.
func (n *DefaultNoteService) clean(text string) string {
	return strings.TrimSpace(n.sanitizer.Sanitize(text))
}

func (n *DefaultNoteService) toNoteResponse(note *entity.Note) *contract.NoteResponse {
	return &contract.NoteResponse{
		ID:        note.ID,
		Label:     n.notes.label(note),
		Note:      note.Note,
		User:      note.UserID,
		CreatedAt: utils.FormatEpoch(note.CreatedAt),
		UpdatedAt: utils.FormatEpoch(note.UpdatedAt),
	}
}
