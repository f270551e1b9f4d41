package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-RentalService/internal/api/handlers"
	"github.com/m04kA/SMC-RentalService/internal/domain"
)

// Заголовки аутентификации. Сервис живет за API-шлюзом, который
// проверяет токен и прокидывает личность и capabilities пользователя.
const (
	HeaderUserID       = "X-User-ID"
	HeaderCapabilities = "X-User-Capabilities"
)

type ctxKey int

const authKey ctxKey = iota

// Auth middleware: требует X-User-ID, разбирает X-User-Capabilities
// (список через запятую) и кладет domain.Auth в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userIDStr := r.Header.Get(HeaderUserID)
		if userIDStr == "" {
			handlers.RespondUnauthorized(w, "отсутствует заголовок "+HeaderUserID)
			return
		}

		userID, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil {
			handlers.RespondUnauthorized(w, "некорректный заголовок "+HeaderUserID)
			return
		}

		auth := domain.Auth{UserID: userID}
		if raw := r.Header.Get(HeaderCapabilities); raw != "" {
			for _, capability := range strings.Split(raw, ",") {
				if capability = strings.TrimSpace(capability); capability != "" {
					auth.Capabilities = append(auth.Capabilities, capability)
				}
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), authKey, auth)))
	})
}

// GetAuth возвращает личность вызывающего из контекста
func GetAuth(ctx context.Context) (domain.Auth, bool) {
	auth, ok := ctx.Value(authKey).(domain.Auth)
	return auth, ok
}

// GetUserID возвращает ID пользователя из контекста
func GetUserID(ctx context.Context) (int64, bool) {
	auth, ok := GetAuth(ctx)
	return auth.UserID, ok
}
