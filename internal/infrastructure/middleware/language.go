package middleware

import (
	"context"
	"net/http"

	"github.com/damon-houk/currency-converter/internal/infrastructure/i18n"
)

const languageKey contextKey = "language"

// LanguageMiddleware resolves the response language from the lang query parameter, then the
// Accept-Language header, then fallback
func LanguageMiddleware(fallback i18n.Language) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := i18n.Negotiate(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), fallback)

			w.Header().Set("Content-Language", string(lang))
			w.Header().Add("Vary", "Accept-Language")

			ctx := context.WithValue(r.Context(), languageKey, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetLanguage retrieves the negotiated language from context, English if none was negotiated
func GetLanguage(ctx context.Context) i18n.Language {
	lang, ok := ctx.Value(languageKey).(i18n.Language)
	if !ok || lang == "" {
		return i18n.English
	}
	return lang
}
