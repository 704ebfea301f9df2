package catalog

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)

	ErrVariantNotFound = apperror.New(
		apperror.CodeNotFound,
		"Variant not found",
		http.StatusNotFound,
	)

	ErrInvalidProduct = apperror.New(
		apperror.CodeInvalidInput,
		"Product payload has no usable variants",
		http.StatusUnprocessableEntity,
	)
)
