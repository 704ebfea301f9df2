package product

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var ErrInvalidEvent = apperror.New(
	apperror.CodeInvalidInput,
	"Unknown selection event",
	http.StatusBadRequest,
)
