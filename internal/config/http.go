package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HIfNoneMatch  = "If-None-Match"
	HCacheControl = "Cache-Control"
	HRequestID    = "X-Request-ID"

	CTypeJSON        = "application/json"
	CTypeEventStream = "text/event-stream"
)

const (
	HTTPErrMethodNotAllowed = "Method not allowed"
	HTTPErrBadRequest       = "Bad request"
	HTTPErrPostNotFound     = "Post not found"
	HTTPErrSessionNotFound  = "Wizard session not found"
	HTTPErrUnknownField     = "Unknown field"
	HTTPErrInvalidStep      = "Invalid step"
	HTTPErrTooManySessions  = "Too many open wizard sessions"
	HTTPErrStreaming        = "Streaming unsupported"
)
