package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/unrolled/secure"

	"github.com/jhoicas/inventario-sucursales/internal/application/dto"
)

// SecureHeaders aplica las cabeceras de seguridad de unrolled/secure.
// Fuera de producción no exige HTTPS.
func SecureHeaders(production bool) fiber.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	})
	return adaptor.HTTPMiddleware(sm.Handler)
}

// RateLimit limita las solicitudes por IP en la ventana dada. requests <= 0 desactiva el límite.
func RateLimit(requests int, window time.Duration) fiber.Handler {
	if requests <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	limiter := httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "RATE_LIMITED", Message: "demasiadas solicitudes, intente más tarde"})
		}),
	)
	return adaptor.HTTPMiddleware(limiter)
}
