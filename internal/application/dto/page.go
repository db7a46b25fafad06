package dto

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PageRequest paginación de listados (kardex, apartados, traslados, notificaciones).
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// NewPageRequest normaliza limit/offset: 20 por defecto, máximo 100, offset no negativo.
func NewPageRequest(limit, offset int) PageRequest {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return PageRequest{Limit: limit, Offset: offset}
}

// PageResponse página devuelta; Count es el número de elementos de esta página.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP. Details lista los campos que no pasaron la validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
