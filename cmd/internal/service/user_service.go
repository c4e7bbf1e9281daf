package service

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/utils"
	"simplecms/cmd/internal/utils/apierror"
	"simplecms/cmd/internal/utils/uid"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindAll(ctx context.Context) ([]*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Save(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, user *entity.User) error
}

// FileStore is where uploaded files end up. Keys are relative slash-separated paths.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

type UserService struct {
	UserRepo UserRepository
	NoteRepo NoteRepository
	Files    FileStore
	Images   FileStore
	Validate *validator.Validate

	users accessGuard
	notes accessGuard
}

func NewUserService(
	registry *schema.Registry,
	userRepo UserRepository,
	noteRepo NoteRepository,
	files FileStore,
	images FileStore,
	validate *validator.Validate,
) *UserService {
	return &UserService{
		UserRepo: userRepo,
		NoteRepo: noteRepo,
		Files:    files,
		Images:   images,
		Validate: validate,
		users:    newAccessGuard(registry, schema.UserList),
		notes:    newAccessGuard(registry, schema.NoteList),
	}
}

func (u *UserService) GetUsers(ctx context.Context, actor *policy.Authentication) ([]*contract.UserResponse, apierror.ErrorResponse) {
	users, err := u.UserRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch users: %v", err)
		return nil, apierror.InternalServerError
	}

	notes, err := u.NoteRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch notes: %v", err)
		return nil, apierror.InternalServerError
	}

	byOwner := make(map[string][]*entity.Note)
	for _, n := range notes {
		if owner, ok := n.Ref("user"); ok {
			byOwner[owner] = append(byOwner[owner], n)
		}
	}

	resp := make([]*contract.UserResponse, 0, len(users))
	for _, user := range users {
		if !u.users.canRead(actor, user) {
			continue
		}
		resp = append(resp, u.toUserResponse(actor, user, byOwner[user.ID]))
	}
	return resp, nil
}

func (u *UserService) GetUser(ctx context.Context, actor *policy.Authentication, id string) (*contract.UserResponse, apierror.ErrorResponse) {
	user, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = u.users.check(policy.OpRead, actor, user); apierr != nil {
		return nil, apierr
	}
	return u.withNotes(ctx, actor, user)
}

func (u *UserService) CreateUser(ctx context.Context, actor *policy.Authentication, req *contract.CreateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	user := &entity.User{Name: req.Name}
	if req.Email != nil {
		user.Email = strings.ToLower(*req.Email)
	}
	if req.TwitterID != nil {
		user.TwitterID = *req.TwitterID
	}
	if req.TwitterUsername != nil {
		user.TwitterUsername = *req.TwitterUsername
	}
	if req.Affiliation != nil {
		user.Affiliation = entity.Affiliation(*req.Affiliation)
	}

	// Create is decided on the proposed item.
	if apierr := u.users.checkFields(policy.OpCreate, actor, user, req.Fields()); apierr != nil {
		return nil, apierr
	}

	if apierr := u.checkEmailAvailable(ctx, user.Email, ""); apierr != nil {
		return nil, apierr
	}

	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			log.Errorf("failed to hash password: %v", err)
			return nil, apierror.InternalServerError
		}
		user.PasswordHash = hash
	}

	now := utils.NowUTC()
	user.ID = uid.Generate()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := u.UserRepo.Save(ctx, user); err != nil {
		log.Errorf("failed to create user: %v", err)
		return nil, apierror.InternalServerError
	}
	return u.toUserResponse(actor, user, nil), nil
}

func (u *UserService) UpdateUser(ctx context.Context, actor *policy.Authentication, id string, req *contract.UpdateUserRequest) (*contract.UserResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := u.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	target, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = u.users.check(policy.OpUpdate, actor, target); apierr != nil {
		return nil, apierr
	}

	updater := &userUpdater{
		actor:  actor,
		target: target,
		guard:  u.users,
	}

	updater.setString("name", req.Name, &target.Name)
	updater.setString("twitterId", req.TwitterID, &target.TwitterID)
	updater.setString("twitterUsername", req.TwitterUsername, &target.TwitterUsername)
	updater.setAffiliation(req.Affiliation)
	updater.setEmail(req.Email)
	updater.setPassword(req.Password)

	if updater.err != nil {
		return nil, updater.err
	}

	if updater.emailChanged {
		if apierr = u.checkEmailAvailable(ctx, target.Email, target.ID); apierr != nil {
			return nil, apierr
		}
	}

	if updater.dirty {
		target.UpdatedAt = utils.NowUTC()
		if err := u.UserRepo.Save(ctx, target); err != nil {
			log.Errorf("failed to update user %s: %v", target.ID, err)
			return nil, apierror.InternalServerError
		}
	}
	return u.withNotes(ctx, actor, target)
}

func (u *UserService) DeleteUser(ctx context.Context, actor *policy.Authentication, id string) apierror.ErrorResponse {
	target, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return apierr
	}

	if apierr = u.users.check(policy.OpDelete, actor, target); apierr != nil {
		return apierr
	}

	if err := u.UserRepo.Delete(ctx, target); err != nil {
		log.Errorf("failed to delete user %s: %v", target.ID, err)
		return apierror.InternalServerError
	}

	u.discardFile(ctx, u.Files, target.AttachmentKey)
	u.discardFile(ctx, u.Images, target.AvatarKey)
	return nil
}

func (u *UserService) UploadAttachment(ctx context.Context, actor *policy.Authentication, id string, fh *multipart.FileHeader) (*contract.UserResponse, apierror.ErrorResponse) {
	return u.upload(ctx, actor, id, fh, &uploadTarget{
		field:    "attachment",
		prefix:   "attachments/",
		maxBytes: contract.MaxAttachmentSizeBytes,
		validExt: contract.ValidAttachmentTypes,
		store:    u.Files,
		apply: func(user *entity.User, key, name string) string {
			old := user.AttachmentKey
			user.AttachmentKey = key
			user.AttachmentName = name
			return old
		},
	})
}

func (u *UserService) UploadAvatar(ctx context.Context, actor *policy.Authentication, id string, fh *multipart.FileHeader) (*contract.UserResponse, apierror.ErrorResponse) {
	return u.upload(ctx, actor, id, fh, &uploadTarget{
		field:    "avatar",
		prefix:   "avatars/",
		maxBytes: contract.MaxAvatarSizeBytes,
		validExt: contract.ValidAvatarTypes,
		store:    u.Images,
		apply: func(user *entity.User, key, _ string) string {
			old := user.AvatarKey
			user.AvatarKey = key
			return old
		},
	})
}

// uploadTarget describes one file field of the User list.
type uploadTarget struct {
	field    string
	prefix   string
	maxBytes int64
	validExt []string
	store    FileStore

	// apply stores the new key and original name, returning the replaced key.
	apply func(user *entity.User, key, name string) string
}

func (u *UserService) upload(ctx context.Context, actor *policy.Authentication, id string, fh *multipart.FileHeader, t *uploadTarget) (*contract.UserResponse, apierror.ErrorResponse) {
	target, apierr := u.fetchUser(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if apierr = u.users.checkFields(policy.OpUpdate, actor, target, []string{t.field}); apierr != nil {
		return nil, apierr
	}

	ext, apierr := checkUpload(fh, t.maxBytes, t.validExt)
	if apierr != nil {
		return nil, apierr
	}

	data, apierr := readUpload(fh)
	if apierr != nil {
		return nil, apierr
	}

	key := t.prefix + uuid.NewString() + ext
	if err := t.store.Upload(ctx, key, data); err != nil {
		log.Errorf("failed to upload %s for user %s: %v", t.field, target.ID, err)
		return nil, apierror.InternalServerError
	}

	old := t.apply(target, key, fh.Filename)
	target.UpdatedAt = utils.NowUTC()
	if err := u.UserRepo.Save(ctx, target); err != nil {
		log.Errorf("failed to save %s of user %s: %v", t.field, target.ID, err)
		u.discardFile(ctx, t.store, key)
		return nil, apierror.InternalServerError
	}

	u.discardFile(ctx, t.store, old)
	return u.withNotes(ctx, actor, target)
}

func (u *UserService) fetchUser(ctx context.Context, id string) (*entity.User, apierror.ErrorResponse) {
	user, err := u.UserRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if user == nil {
		return nil, apierror.NotFoundError
	}
	return user, nil
}

func (u *UserService) checkEmailAvailable(ctx context.Context, email, excludeID string) apierror.ErrorResponse {
	if email == "" {
		return nil
	}

	taken, err := u.UserRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		log.Errorf("failed to check if email is taken: %v", err)
		return apierror.InternalServerError
	}

	if taken {
		return apierror.EmailTakenError
	}
	return nil
}

func (u *UserService) withNotes(ctx context.Context, actor *policy.Authentication, user *entity.User) (*contract.UserResponse, apierror.ErrorResponse) {
	notes, err := u.NoteRepo.FindByUserID(ctx, user.ID)
	if err != nil {
		log.Errorf("failed to fetch notes of user %s: %v", user.ID, err)
		return nil, apierror.InternalServerError
	}
	return u.toUserResponse(actor, user, notes), nil
}

// discardFile removes a replaced or orphaned upload. Failures only leave garbage behind.
func (u *UserService) discardFile(ctx context.Context, store FileStore, key string) {
	if key == "" || store == nil {
		return
	}

	if err := store.Delete(ctx, key); err != nil {
		log.Warnf("failed to delete stored file %s: %v", key, err)
	}
}

func (u *UserService) toUserResponse(actor *policy.Authentication, user *entity.User, notes []*entity.Note) *contract.UserResponse {
	readable := u.users.list.ReadableFields(actor, user)
	resp := &contract.UserResponse{
		ID:        user.ID,
		Label:     u.users.label(user),
		CreatedAt: utils.FormatEpoch(user.CreatedAt),
		UpdatedAt: utils.FormatEpoch(user.UpdatedAt),
	}

	if readable["name"] {
		resp.Name = &user.Name
	}
	if readable["twitterId"] && user.TwitterID != "" {
		resp.TwitterID = &user.TwitterID
	}
	if readable["twitterUsername"] && user.TwitterUsername != "" {
		resp.TwitterUsername = &user.TwitterUsername
	}
	if readable["affiliation"] && user.Affiliation != entity.AffiliationNone {
		affiliation := string(user.Affiliation)
		resp.Affiliation = &affiliation
	}

	// Only notes the caller could open on their own are listed.
	if readable["notes"] {
		for _, n := range notes {
			if u.notes.canRead(actor, n) {
				resp.NoteIDs = append(resp.NoteIDs, n.ID)
			}
		}
	}

	if readable["attachment"] && user.AttachmentKey != "" && u.Files != nil {
		resp.Attachment = &contract.FileResponse{
			Filename: user.AttachmentName,
			URL:      u.Files.URL(user.AttachmentKey),
		}
	}
	if readable["avatar"] && user.AvatarKey != "" && u.Images != nil {
		resp.Avatar = &contract.FileResponse{
			Filename: user.AvatarKey[strings.LastIndex(user.AvatarKey, "/")+1:],
			URL:      u.Images.URL(user.AvatarKey),
		}
	}
	return resp
}

func checkUpload(fh *multipart.FileHeader, maxBytes int64, valid []string) (string, apierror.ErrorResponse) {
	if fh.Size > maxBytes {
		return "", apierror.NewFileTooLargeError(maxBytes)
	}

	if strings.TrimSpace(fh.Filename) == "" {
		return "", apierror.EmptyFileNameError
	}

	ext, ok := utils.CheckFileExt(fh.Filename, valid)
	if !ok {
		return "", apierror.NewInvalidFileExtError(ext)
	}
	return ext, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fh.Open()
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
