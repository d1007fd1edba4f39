package errs

import "net/http"

// errorMap holds the template CustomError for every known code. Messages are
// user-facing; they travel to participants verbatim inside error events.
var errorMap = map[int]CustomError{
	ErrInvalidParams: {
		Code:    ErrInvalidParams,
		Message: "Invalid request parameters",
		Status:  http.StatusBadRequest,
	},
	ErrInvalidJSONFormat: {
		Code:    ErrInvalidJSONFormat,
		Message: "Malformed command payload",
		Status:  http.StatusBadRequest,
	},
	ErrRateLimitExceeded: {
		Code:    ErrRateLimitExceeded,
		Message: "You are sending too fast. Slow down.",
		Status:  http.StatusTooManyRequests,
	},
	ErrNameMissing: {
		Code:    ErrNameMissing,
		Message: "A display name is required to join",
		Status:  http.StatusBadRequest,
	},
	ErrNameTaken: {
		Code:    ErrNameTaken,
		Message: "Username is already taken",
		Status:  http.StatusConflict,
	},
	ErrNameTooLong: {
		Code:    ErrNameTooLong,
		Message: "Display name must be at most %d characters",
		Status:  http.StatusBadRequest,
	},
	ErrNotJoined: {
		Code:    ErrNotJoined,
		Message: "Join before sending commands",
		Status:  http.StatusBadRequest,
	},
	ErrMessageEmpty: {
		Code:    ErrMessageEmpty,
		Message: "Message content is empty",
		Status:  http.StatusBadRequest,
	},
	ErrMessageTooLong: {
		Code:    ErrMessageTooLong,
		Message: "Message content must be at most %d bytes",
		Status:  http.StatusBadRequest,
	},
	ErrUnknown: {
		Code:    ErrUnknown,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	},
}
