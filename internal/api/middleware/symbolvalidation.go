package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Visualization-Backend/internal/validation"
)

// ValidateSymbolMiddleware rejects requests whose {symbol} URL parameter is not a
// well formed fund code with 400 Bad Request.
func ValidateSymbolMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := chi.URLParam(r, "symbol")

		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid fund symbol", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
