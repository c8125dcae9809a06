package errors

// Stable string codes surfaced in the API envelope. Clients branch on these,
// so values never change once shipped.

// Auth failures (HTTP 401)
const (
	WireProjectKeyMissing = "PROJECT_KEY_MISSING"
	WireSignatureMissing  = "SIGNATURE_MISSING"
	WireAdminTokenMissing = "ADMIN_TOKEN_MISSING"
	WireProjectNotFound   = "PROJECT_NOT_FOUND"
	WireSignatureInvalid  = "SIGNATURE_INVALID"
	WireAdminTokenInvalid = "ADMIN_TOKEN_INVALID"

	// WireDatabaseError marks a registry lookup that failed outright,
	// distinct from a key that simply has no project
	WireDatabaseError = "DATABASE_ERROR"
)

// Validation failures (HTTP 400)
const (
	WireProjectRequired  = "PROJECT_REQUIRED"
	WireTooManyEvents    = "TOO_MANY_EVENTS"
	WireInvalidEventData = "INVALID_EVENT_DATA"
)

// Rate limiting (HTTP 429)
const (
	WireIPRateLimited      = "IP_RATE_LIMIT_EXCEEDED"
	WireProjectRateLimited = "PROJECT_RATE_LIMIT_EXCEEDED"
	WireRateLimited        = "RATE_LIMIT_EXCEEDED"
)

// Server-side failures (HTTP 500)
const (
	WireInternal         = "INTERNAL_ERROR"
	WireDBQueryFailed    = "DB_QUERY_FAILED"
	WireDBInsertFailed   = "DB_INSERT_FAILED"
	WireDBBulkFailed     = "DB_BULK_INSERT_FAILED"
	WireDBNotInitialized = "DB_NOT_INITIALIZED"
)

// Generic codes for surfaces without a dedicated entry above
const (
	WireNotFound         = "NOT_FOUND"
	WireDuplicate        = "DUPLICATE_KEY"
	WireConflict         = "CONFLICT"
	WireUnauthorized     = "UNAUTHORIZED"
	WireForbidden        = "FORBIDDEN"
	WireValidationFailed = "VALIDATION_FAILED"
	WireUnavailable      = "UNAVAILABLE"
)

// defaultWire maps an error kind to its fallback string code.
// Paths that matter set an explicit wire; this catches the rest
func defaultWire(c ErrorCode) string {
	switch c {
	case ErrorCodeNotFound:
		return WireNotFound
	case ErrorCodeDuplicateKey:
		return WireDuplicate
	case ErrorCodeConflict:
		return WireConflict
	case ErrorCodeUnauthorized:
		return WireUnauthorized
	case ErrorCodeForbidden:
		return WireForbidden
	case ErrorCodeValidation, ErrorCodeInvalidArgument, ErrorCodeJSON:
		return WireValidationFailed
	case ErrorCodeTooManyRequests:
		return WireRateLimited
	case ErrorCodeUnavailable:
		return WireUnavailable
	case ErrorCodeDB:
		return WireDBQueryFailed
	default:
		return WireInternal
	}
}
