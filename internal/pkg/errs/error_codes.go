/*
Package errs provides custom error types and application-level error code constants.

These codes identify the ways a command or connection attempt can be rejected,
both inside the relay and in the error events it sends back to participants.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that a frame was not valid JSON or did not
	// match the expected payload shape.
	ErrInvalidJSONFormat = 1002

	// ErrRateLimitExceeded indicates that the request or command rate has
	// exceeded the set limit.
	ErrRateLimitExceeded = 1003
)

// 2xxx: Session and Participant Errors
const (
	// ErrNameMissing indicates that a join was attempted without a display name.
	ErrNameMissing = 2001

	// ErrNameTaken indicates that the chosen display name is already in use by
	// a connected participant.
	ErrNameTaken = 2002

	// ErrNameTooLong indicates that the display name exceeded the maximum length.
	ErrNameTooLong = 2003

	// ErrNotJoined indicates that a command arrived before the join handshake.
	ErrNotJoined = 2004
)

// 3xxx: Message Errors
const (
	// ErrMessageEmpty indicates a message or edit with no content after sanitizing.
	ErrMessageEmpty = 3001

	// ErrMessageTooLong indicates that message content exceeded the maximum length.
	ErrMessageTooLong = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified internal error.
	ErrUnknown = 5000
)
