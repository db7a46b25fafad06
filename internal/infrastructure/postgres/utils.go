package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullString convierte "" en NULL para columnas opcionales (uuid, texto).
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// derefString convierte un NULL escaneado en "".
func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// pageArgs normaliza limit/offset; limit <= 0 usa 50.
func pageArgs(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
