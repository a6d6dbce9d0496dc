// Package apperr defines the closed error taxonomy shared by the store, the
// event engine, the RTC core, and the gateway (spec §7). Every kind carries
// a code, a human message, and an optional wrapped cause.
package apperr

import "fmt"

// Kind is one of the fixed error codes of the error-handling design.
type Kind string

const (
	KindEventValidationFailed     Kind = "EventValidationFailed"
	KindEventNotFound             Kind = "EventNotFound"
	KindRoomNotFound              Kind = "RoomNotFound"
	KindParticipantNotFound       Kind = "ParticipantNotFound"
	KindUnauthorized              Kind = "Unauthorized"
	KindForbidden                 Kind = "Forbidden"
	KindInvalidStatusTransition   Kind = "InvalidStatusTransition"
	KindNoLectureScheduled        Kind = "NoLectureScheduled"
	KindNoLectureActive           Kind = "NoLectureActive"
	KindRoomFull                  Kind = "RoomFull"
	KindDatabaseReadError         Kind = "DatabaseReadError"
	KindDatabaseWriteError        Kind = "DatabaseWriteError"
	KindLectureSchedulingFailed   Kind = "LectureSchedulingFailed"
	KindLectureUpdateFailed       Kind = "LectureUpdateFailed"
	KindLectureCancellationFailed Kind = "LectureCancellationFailed"
	KindLectureListFailed         Kind = "LectureListFailed"
	KindLectureDetailsFailed      Kind = "LectureDetailsFailed"
	KindCommsNotInitialized       Kind = "CommsNotInitialized"
	KindCommunicationSetupFailed  Kind = "CommunicationSetupFailed"
	KindResourceAllocationFailed  Kind = "ResourceAllocationFailed"
	KindResourceDeallocationFailed Kind = "ResourceDeallocationFailed"
	KindResourceStatusFailed      Kind = "ResourceStatusFailed"
)

// Error is the concrete error type surfaced across the core.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an Error wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if as(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind of err, if it is (or wraps) an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
