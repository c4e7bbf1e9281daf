package service

import (
	"context"
	"time"

	"simplecms/cmd/internal/auth"
	"simplecms/cmd/internal/contract"
	"simplecms/cmd/internal/domain/entity"
	"simplecms/cmd/internal/domain/policy"
	"simplecms/cmd/internal/domain/schema"
	"simplecms/cmd/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindActiveByID(ctx context.Context, id string, now int64) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type PasswordValidator interface {
	Validate(ctx context.Context, creds auth.Credentials) (*auth.Result, error)
}

type FederatedValidator interface {
	Validate(ctx context.Context, accessToken string) (*auth.Result, error)
}

type SignInRecorder interface {
	RecordSignIn(method, outcome string)
}

// IssuedSession is what the HTTP layer needs to set the session cookie.
type IssuedSession struct {
	Token     string
	ExpiresAt time.Time
}

type SessionService struct {
	SessionRepo SessionRepository
	UserRepo    UserRepository
	Password    PasswordValidator
	Federated   FederatedValidator // nil when social login is disabled
	Signer      *auth.SessionSigner
	Validate    *validator.Validate
	Metrics     SignInRecorder
	MaxAge      time.Duration

	now func() time.Time
}

func NewSessionService(
	sessionRepo SessionRepository,
	userRepo UserRepository,
	password PasswordValidator,
	federated FederatedValidator,
	signer *auth.SessionSigner,
	validate *validator.Validate,
	metrics SignInRecorder,
	maxAge time.Duration,
) *SessionService {
	return &SessionService{
		SessionRepo: sessionRepo,
		UserRepo:    userRepo,
		Password:    password,
		Federated:   federated,
		Signer:      signer,
		Validate:    validate,
		Metrics:     metrics,
		MaxAge:      maxAge,
		now:         time.Now,
	}
}

// Resolve maps a session cookie value to the caller it names.
// Any problem with the token or the stored session yields an anonymous caller.
func (s *SessionService) Resolve(ctx context.Context, token string) (*policy.Authentication, string) {
	if token == "" {
		return nil, ""
	}

	sid, err := s.Signer.Parse(token)
	if err != nil {
		log.Debugf("ignoring session cookie: %v", err)
		return nil, ""
	}

	session, err := s.SessionRepo.FindActiveByID(ctx, sid, s.now().UnixMilli())
	if err != nil {
		log.Errorf("failed to load session %s: %v", sid, err)
		return nil, ""
	}

	if session == nil {
		return nil, ""
	}
	return &policy.Authentication{ListKey: session.ListKey, ItemID: session.ItemID}, session.ID
}

// GetSession never fails: lookup problems are logged and reported as signed out.
func (s *SessionService) GetSession(ctx context.Context, actor *policy.Authentication) *contract.SessionResponse {
	if actor == nil || actor.ListKey != schema.UserList {
		return &contract.SessionResponse{SignedIn: false}
	}

	user, err := s.UserRepo.FindByID(ctx, actor.ItemID)
	if err != nil {
		log.Errorf("failed to load session user %s: %v", actor.ItemID, err)
		return &contract.SessionResponse{SignedIn: false}
	}

	if user == nil {
		return &contract.SessionResponse{SignedIn: false}
	}

	return &contract.SessionResponse{
		SignedIn:        true,
		UserID:          user.ID,
		Name:            user.Name,
		TwitterID:       user.TwitterID,
		TwitterUsername: user.TwitterUsername,
	}
}

// SignIn validates a password sign-in. Bad credentials are a normal
// unsuccessful response, only infrastructure faults return an error.
func (s *SessionService) SignIn(ctx context.Context, req *contract.SignInRequest) (*contract.SignInResponse, *IssuedSession, apierror.ErrorResponse) {
	res, err := s.Password.Validate(ctx, auth.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		log.Errorf("password sign-in failed: %v", err)
		s.record("password", "error")
		return nil, nil, apierror.InternalServerError
	}
	return s.complete(ctx, "password", res)
}

func (s *SessionService) SignInFederated(ctx context.Context, req *contract.FederatedSignInRequest) (*contract.SignInResponse, *IssuedSession, apierror.ErrorResponse) {
	if s.Federated == nil {
		return nil, nil, apierror.FederatedDisabledError
	}

	if err := s.Validate.Struct(req); err != nil {
		return nil, nil, apierror.FromValidationError(err)
	}

	res, err := s.Federated.Validate(ctx, req.AccessToken)
	if err != nil {
		log.Errorf("federated sign-in failed: %v", err)
		s.record("federated", "error")
		return nil, nil, apierror.InternalServerError
	}
	return s.complete(ctx, "federated", res)
}

// SignOut ends the session backing the request. Signing out anonymously succeeds.
func (s *SessionService) SignOut(ctx context.Context, sessionID string) (*contract.SignOutResponse, apierror.ErrorResponse) {
	if sessionID != "" {
		if err := s.SessionRepo.DeleteByID(ctx, sessionID); err != nil {
			log.Errorf("failed to end session %s: %v", sessionID, err)
			return nil, apierror.InternalServerError
		}
	}
	return &contract.SignOutResponse{Success: true}, nil
}

func (s *SessionService) complete(ctx context.Context, method string, res *auth.Result) (*contract.SignInResponse, *IssuedSession, apierror.ErrorResponse) {
	if !res.Success {
		s.record(method, "failure")
		return &contract.SignInResponse{Success: false}, nil, nil
	}

	issued, err := s.start(ctx, res.Item)
	if err != nil {
		log.Errorf("failed to start session for user %s: %v", res.Item.ID, err)
		s.record(method, "error")
		return nil, nil, apierror.InternalServerError
	}

	s.record(method, "success")
	return &contract.SignInResponse{Success: true, ItemID: res.Item.ID}, issued, nil
}

func (s *SessionService) start(ctx context.Context, user *entity.User) (*IssuedSession, error) {
	now := s.now()
	expires := now.Add(s.MaxAge)

	session := &entity.Session{
		ID:        uuid.NewString(),
		ListKey:   schema.UserList,
		ItemID:    user.ID,
		ExpiresAt: expires.UnixMilli(),
		CreatedAt: now.UnixMilli(),
	}

	if err := s.SessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := s.Signer.Sign(session.ID, now, expires)
	if err != nil {
		return nil, err
	}
	return &IssuedSession{Token: token, ExpiresAt: expires}, nil
}

func (s *SessionService) record(method, outcome string) {
	if s.Metrics != nil {
		s.Metrics.RecordSignIn(method, outcome)
	}
}
