package payment

import "errors"

var (
	ErrInvalidSignature   = errors.New("payment signature is invalid")
	ErrPaymentNotCaptured = errors.New("payment has not been captured")
	ErrOrderMismatch      = errors.New("payment does not belong to this order")
	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrPaymentClaimed     = errors.New("payment belongs to another booking")
)
