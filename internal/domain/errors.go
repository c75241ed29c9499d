package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrWeakPassword       = errors.New("el password no cumple la política de complejidad")
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrPendingApproval    = errors.New("la cuenta aún no fue aprobada por un administrador")
	ErrWrongPassword      = errors.New("el password actual es incorrecto")
	ErrPasswordUnchanged  = errors.New("el password nuevo debe ser distinto al actual")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
)
