package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes the checkout flow maps to operator messages.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codePermissionDenied    = "42501"
	codeUndefinedFunction   = "42883"
	codeUndefinedTable      = "42P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation checks for Postgres unique constraint errors.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsForeignKeyViolation checks for missing related rows on insert/update.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// IsPermissionDenied checks for role/grant failures.
func IsPermissionDenied(err error) bool {
	return pgCode(err) == codePermissionDenied
}

// IsUndefinedFunction checks for a missing stored procedure.
func IsUndefinedFunction(err error) bool {
	return pgCode(err) == codeUndefinedFunction
}

// Humanize maps known persistence failures to an operator-readable message.
// Unknown errors get a generic fallback so raw SQL state never reaches the UI.
func Humanize(err error) string {
	switch pgCode(err) {
	case codeForeignKeyViolation:
		return "Datos relacionados no encontrados: el barbero o servicio ya no existe"
	case codePermissionDenied:
		return "Sin permisos para registrar el cobro, revisa tu sesión"
	case codeUndefinedFunction:
		return "Función del servidor no disponible, contacta al administrador"
	case codeUndefinedTable:
		return "Tabla no disponible, contacta al administrador"
	case codeUniqueViolation:
		return "Registro duplicado"
	default:
		return "No se pudo guardar la factura, intenta de nuevo"
	}
}
