package domain

import "errors"

var (
	// Agreement errors
	ErrAgreementNotFound  = errors.New("agreement not found")
	ErrAgreementClosed    = errors.New("agreement is closed")
	ErrAgreementNotClosed = errors.New("agreement is not closed")

	// Event errors
	ErrEventNotFound = errors.New("event not found")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)
