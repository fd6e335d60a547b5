package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Structured rejection reasons for the inbound invoice endpoint.
var (
	ErrDuplicateOrder    = errors.New("duplicate_order")
	ErrProductNotFound   = errors.New("product_not_found")
	ErrInsufficientStock = errors.New("insufficient_stock")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
