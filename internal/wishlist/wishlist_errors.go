package wishlist

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product ID",
		http.StatusBadRequest,
	)

	ErrInvalidSession = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid session",
		http.StatusBadRequest,
	)
)
