package billing

import "errors"

var (
	ErrMissingWebhookSecret      = errors.New("billing: webhook secret is required")
	ErrWebhookVerificationFailed = errors.New("billing: webhook signature verification failed")
	ErrInvalidWebhookPayload     = errors.New("billing: invalid webhook payload")
)
