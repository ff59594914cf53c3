package auth

import "fmt"

// Status identifies the outcome of a service operation. It is the only
// failure vocabulary that crosses component boundaries; lower layers classify
// precisely and upper layers forward the status verbatim.
type Status string

const (
	StatusSuccess            Status = "success"
	StatusUserNotFound       Status = "user_not_found_in_db"
	StatusUserAlreadyExists  Status = "user_already_exists"
	StatusWrongPassword      Status = "wrong_password"
	StatusInvalidToken       Status = "invalid_token"
	StatusTokenExpired       Status = "token_expired"
	StatusDBConnectionFailed Status = "db_connection_failed"
)

// statusMessages are the user-facing defaults resolved when a Result carries
// no message of its own.
var statusMessages = map[Status]string{
	StatusSuccess:            "Operation completed successfully",
	StatusUserNotFound:       "User not found",
	StatusUserAlreadyExists:  "This username is already taken",
	StatusWrongPassword:      "Invalid username or password",
	StatusInvalidToken:       "Invalid authentication token",
	StatusTokenExpired:       "Your session has expired. Please login again",
	StatusDBConnectionFailed: "Service is temporarily unavailable",
}

// DefaultMessage resolves the user-facing message for the status.
func (s Status) DefaultMessage() string {
	if msg, ok := statusMessages[s]; ok {
		return msg
	}
	return "An unexpected error occurred. Please try again later"
}

// Result is a typed success/failure envelope. Operations construct one and
// never mutate it afterwards; it flows up the call chain unchanged until the
// transport layer translates it into an external response.
type Result[T any] struct {
	status  Status
	data    T
	message string
}

// Success builds a successful Result carrying data. Void operations pass a
// nil payload; callers must branch on IsSuccess, never on data presence.
func Success[T any](data T, messages ...string) Result[T] {
	return Result[T]{
		status:  StatusSuccess,
		data:    data,
		message: firstMessage(messages),
	}
}

// Failure builds a failed Result. Passing StatusSuccess is a programming
// error and panics.
func Failure[T any](status Status, messages ...string) Result[T] {
	if status == StatusSuccess {
		panic(fmt.Sprintf("auth: Failure called with %q", status))
	}
	return Result[T]{
		status:  status,
		message: firstMessage(messages),
	}
}

// ForwardFailure copies a failure into a Result with a different payload
// type, preserving status and message.
func ForwardFailure[T, U any](r Result[U]) Result[T] {
	if r.IsSuccess() {
		panic("auth: ForwardFailure called on a successful result")
	}
	return Result[T]{
		status:  r.status,
		message: r.message,
	}
}

func (r Result[T]) IsSuccess() bool {
	return r.status == StatusSuccess
}

func (r Result[T]) IsFailure() bool {
	return !r.IsSuccess()
}

func (r Result[T]) Status() Status {
	return r.status
}

// Data returns the payload. It is the zero value for failures and for void
// successes.
func (r Result[T]) Data() T {
	return r.data
}

// Message returns the message set at construction, falling back to the
// status default for failures.
func (r Result[T]) Message() string {
	if r.message != "" {
		return r.message
	}
	if r.IsFailure() {
		return r.status.DefaultMessage()
	}
	return ""
}

func firstMessage(messages []string) string {
	if len(messages) > 0 {
		return messages[0]
	}
	return ""
}
