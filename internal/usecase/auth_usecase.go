package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// SessionKey строит ключ записи сессии в хранилище.
func SessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// AuthUseCase отвечает за учётные записи и сессии. Сессия хранится как JSON
// domain.PublicUser под ключом SessionKey.
type AuthUseCase struct {
	userRepo     UserRepository
	wishlistRepo WishlistRepository
	sessions     SessionStore
	logger       logger.Logger
	now          func() time.Time
}

func NewAuthUC(userRepo UserRepository, wishlistRepo WishlistRepository, sessions SessionStore, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		wishlistRepo: wishlistRepo,
		sessions:     sessions,
		logger:       logger,
		now:          time.Now,
	}
}

// SignUp создаёт пользователя. Для занятого email возвращает e.ErrEmailTaken.
func (a *AuthUseCase) SignUp(ctx context.Context, req *SignUpReq) (*domain.PublicUser, error) {
	const op = "AuthUseCase.SignUp"

	user, err := domain.NewUser(req.Name, req.Email, req.Password, a.now().UTC())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := a.userRepo.Create(ctx, user); err != nil {
		return nil, e.Wrap(op, err)
	}

	public := user.Public()
	return &public, nil
}

// SignIn проверяет email и пароль и открывает новую сессию.
// Любое несовпадение даёт один и тот же e.ErrInvalidCredentials.
func (a *AuthUseCase) SignIn(ctx context.Context, req *SignInReq) (*SignInRes, error) {
	const op = "AuthUseCase.SignIn"

	email, err := domain.NormalizeEmail(req.Email)
	if err != nil {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	user, err := a.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			return nil, e.Wrap(op, e.ErrInvalidCredentials)
		}
		return nil, e.Wrap(op, err)
	}

	if !user.PasswordMatches(req.Password) {
		return nil, e.Wrap(op, e.ErrInvalidCredentials)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if err := a.writeSession(ctx, sessionID, user.Public()); err != nil {
		return nil, e.Wrap(op, err)
	}

	return &SignInRes{SessionID: sessionID, User: user.Public()}, nil
}

func (a *AuthUseCase) SignOut(ctx context.Context, sessionID string) error {
	const op = "AuthUseCase.SignOut"

	if sessionID == "" {
		return nil
	}

	if err := a.sessions.Delete(ctx, SessionKey(sessionID)); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// CurrentUser читает запись сессии и сверяет её с хранилищем пользователей.
// Отсутствие записи, битый JSON, удалённый пользователь или недоступное
// хранилище означают «нет сессии».
func (a *AuthUseCase) CurrentUser(ctx context.Context, sessionID string) (*domain.PublicUser, bool) {
	const op = "AuthUseCase.CurrentUser"

	if sessionID == "" {
		return nil, false
	}

	raw, ok, err := a.sessions.Get(ctx, SessionKey(sessionID))
	if err != nil {
		a.logger.Warnf("Failed to read session: %v", e.Wrap(op, err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var user domain.PublicUser
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		a.logger.Warnf("Corrupted session record, treating as signed out: %v", e.Wrap(op, err))
		return nil, false
	}

	if user.ID == "" {
		return nil, false
	}

	// Запись сессии могла пережить удаление аккаунта с другого устройства.
	stored, err := a.userRepo.GetByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, e.ErrUserNotFound) {
			if err := a.sessions.Delete(ctx, SessionKey(sessionID)); err != nil {
				a.logger.Warnf("Failed to drop session of deleted account: %v", e.Wrap(op, err))
			}
		} else {
			a.logger.Warnf("Failed to load session user: %v", e.Wrap(op, err))
		}
		return nil, false
	}

	public := stored.Public()
	return &public, true
}

func (a *AuthUseCase) GetUser(ctx context.Context, userID string) (*domain.PublicUser, error) {
	const op = "AuthUseCase.GetUser"

	user, err := a.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	public := user.Public()
	return &public, nil
}

// UpdateProfile меняет только переданные поля и обновляет запись сессии.
func (a *AuthUseCase) UpdateProfile(ctx context.Context, req *UpdateProfileReq) (*domain.PublicUser, error) {
	const op = "AuthUseCase.UpdateProfile"

	user, err := a.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := user.Apply(req.Update); err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := a.userRepo.Update(ctx, user); err != nil {
		return nil, e.Wrap(op, err)
	}

	public := user.Public()
	if req.SessionID != "" {
		if err := a.writeSession(ctx, req.SessionID, public); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return &public, nil
}

func (a *AuthUseCase) ChangePassword(ctx context.Context, req *ChangePasswordReq) error {
	const op = "AuthUseCase.ChangePassword"

	if req.NewPassword == "" {
		return e.Wrap(op, e.ErrPasswordRequired)
	}

	user, err := a.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !user.PasswordMatches(req.CurrentPassword) {
		return e.Wrap(op, e.ErrWrongPassword)
	}

	user.Password = req.NewPassword
	if err := a.userRepo.Update(ctx, user); err != nil {
		return e.Wrap(op, err)
	}

	return nil
}

// DeleteAccount проверяет пароль, удаляет пользователя с его избранным и закрывает сессию.
func (a *AuthUseCase) DeleteAccount(ctx context.Context, req *DeleteAccountReq) error {
	const op = "AuthUseCase.DeleteAccount"

	user, err := a.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return e.Wrap(op, err)
	}

	if !user.PasswordMatches(req.Password) {
		return e.Wrap(op, e.ErrWrongPassword)
	}

	if err := a.wishlistRepo.DeleteByUser(ctx, user.ID); err != nil {
		return e.Wrap(op, err)
	}

	if err := a.userRepo.Delete(ctx, user.ID); err != nil {
		return e.Wrap(op, err)
	}

	if err := a.SignOut(ctx, req.SessionID); err != nil {
		a.logger.Warnf("Failed to clear session of deleted account: %v", e.Wrap(op, err))
	}

	a.logger.Infof("Account deleted. user_id: %s", user.ID)

	return nil
}

func (a *AuthUseCase) writeSession(ctx context.Context, sessionID string, user domain.PublicUser) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}

	return a.sessions.Set(ctx, SessionKey(sessionID), string(raw))
}
