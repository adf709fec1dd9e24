package performance

import "companygrow/internal/domain"

var (
	ErrAlreadyEnrolled         = domain.NewError(domain.ErrConflict, "user already enrolled in course")
	ErrNotEnrolled             = domain.NewError(domain.ErrValidation, "user is not enrolled in course")
	ErrModuleNotFound          = domain.NewError(domain.ErrNotFound, "module not found in course")
	ErrModuleAlreadyCompleted  = domain.NewError(domain.ErrConflict, "module already completed")
	ErrProjectAlreadyCompleted = domain.NewError(domain.ErrConflict, "project already completed")
)
