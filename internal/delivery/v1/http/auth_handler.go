package http

import (
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
)

type AuthHandler struct {
	authUsecase usecase.AuthUC
	logger      logger.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUC, logger logger.Logger) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase, logger: logger}
}

// signUp
//
//	@Summary	Регистрация
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		SignUpRequest	true	"Имя, email, пароль"
//	@Success	201		{object}	domain.PublicUser
//	@Failure	400		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse
//	@Router		/auth/signup [post]
func (h *AuthHandler) signUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.authUsecase.SignUp(r.Context(), &usecase.SignUpReq{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, user)
}

// signIn
//
//	@Summary		Вход
//	@Description	Привязывает пользователя к сессии X-Session-ID. Любая ошибка входа даёт один и тот же ответ 401
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Param			X-Session-ID	header		string			false	"ID сессии"
//	@Param			body			body		SignInRequest	true	"Email и пароль"
//	@Success		200				{object}	SignInResponse
//	@Failure		401				{object}	ErrorResponse
//	@Router			/auth/signin [post]
func (h *AuthHandler) signIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.authUsecase.SignIn(r.Context(), &usecase.SignInReq{
		Email:     req.Email,
		Password:  req.Password,
		SessionID: sessionIDFromCtx(r.Context()),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	w.Header().Set(SessionHeader, res.SessionID)
	WriteSuccess(w, http.StatusOK, SignInResponse{SessionID: res.SessionID, User: res.User})
}

func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	if err := h.authUsecase.SignOut(r.Context(), sessionIDFromCtx(r.Context())); err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, mustUser(r))
}

// updateProfile меняет только переданные поля.
func (h *AuthHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	user, err := h.authUsecase.UpdateProfile(r.Context(), &usecase.UpdateProfileReq{
		SessionID: sessionIDFromCtx(r.Context()),
		UserID:    mustUser(r).ID,
		Update: domain.ProfileUpdate{
			Name:       req.Name,
			Email:      req.Email,
			AvatarSeed: req.AvatarSeed,
		},
	})
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, user)
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.authUsecase.ChangePassword(r.Context(), &usecase.ChangePasswordReq{
		UserID:          mustUser(r).ID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	var req DeleteAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, err)
		return
	}

	if err := h.authUsecase.DeleteAccount(r.Context(), &usecase.DeleteAccountReq{
		SessionID: sessionIDFromCtx(r.Context()),
		UserID:    mustUser(r).ID,
		Password:  req.Password,
	}); err != nil {
		WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
