package cart

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInsufficientStock = apperror.New(
		apperror.CodeConflict,
		"Requested quantity exceeds available stock",
		http.StatusConflict,
	)

	ErrInvalidQuantity = apperror.New(
		apperror.CodeInvalidInput,
		"Quantity must be a whole number of at least 1",
		http.StatusBadRequest,
	)

	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Item not found in cart",
		http.StatusNotFound,
	)

	ErrNoPurchasableVariant = apperror.New(
		apperror.CodeInvalidState,
		"This combination is out of stock",
		http.StatusConflict,
	)

	ErrInvalidSession = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid session",
		http.StatusBadRequest,
	)
)
