package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/storefront-backend/internal/domain"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// SessionHeader передаёт ID сессии устройства. Сервер выдаёт новый, если клиент его не прислал,
// и всегда возвращает актуальный в ответе.
const SessionHeader = "X-Session-ID"

type ctxKey int

const (
	sessionIDKey ctxKey = iota
	userKey
)

type SessionMiddleware struct {
	auth   usecase.AuthUC
	logger logger.Logger
}

func NewSessionMiddleware(auth usecase.AuthUC, logger logger.Logger) *SessionMiddleware {
	return &SessionMiddleware{auth: auth, logger: logger}
}

// Handle кладёт в контекст ID сессии и, если сессия открыта, текущего пользователя.
func (m *SessionMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		w.Header().Set(SessionHeader, sessionID)

		ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
		if user, ok := m.auth.CurrentUser(ctx, sessionID); ok {
			ctx = context.WithValue(ctx, userKey, user)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser отвечает 401, если в запросе нет открытой сессии.
func (m *SessionMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userFromCtx(r.Context()); !ok {
			WriteError(w, e.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sessionIDFromCtx(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey).(string)
	return sessionID
}

func userFromCtx(ctx context.Context) (*domain.PublicUser, bool) {
	user, ok := ctx.Value(userKey).(*domain.PublicUser)
	return user, ok && user != nil
}

// mustUser вызывается только под RequireUser.
func mustUser(r *http.Request) *domain.PublicUser {
	user, _ := userFromCtx(r.Context())
	return user
}
