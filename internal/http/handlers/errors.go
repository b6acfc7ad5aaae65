// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain-specific codes (share_failed) cover failures that status alone does
// not describe. Clients are expected to branch on these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "bad_request",
//	  "message": "Missing query or results"
//	}
package handlers

const (
	ErrCodeBadRequest  = "bad_request"
	ErrCodeNotFound    = "not_found"
	ErrCodeRateLimited = "too_many_requests"
	ErrCodeTooLarge    = "payload_too_large"
	ErrCodeInternal    = "internal_error"

	// Domain-specific:
	ErrCodeShareFailed      = "share_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
