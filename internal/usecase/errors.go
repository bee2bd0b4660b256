package usecase

import "errors"

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeNotFound     = "PROPOSAL_NOT_FOUND"
	CodeForbidden    = "FORBIDDEN"
	CodeDatabase     = "DATABASE_ERROR"
	CodeExport       = "EXPORT_ERROR"
	CodeRenderFailed = "RENDER_FAILED"
)

// DomainError é erro do usuário: validação, permissão, recurso inexistente.
type DomainError struct {
	Code    string
	Message string
	// Fields traz a mensagem por campo quando Code é VALIDATION_ERROR
	Fields map[string]string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}

// TechnicalError é falha de infraestrutura (banco, fila, render).
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
