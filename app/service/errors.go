package service

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrOrderNotFound        = errors.New("order not found")
	ErrCurrencyNotSupported = errors.New("currency is not supported")
	ErrChannelNotEnabled    = errors.New("payment channel is not enabled")
	ErrOrderCreation        = errors.New("order could not be created")
	ErrUpstream             = errors.New("payment gateway request failed")
)
