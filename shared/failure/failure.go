package failure

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// UnprocessableEntity returns a new Failure for requests that are well formed
// but refer to an entity in a state that cannot serve them.
func UnprocessableEntity(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Message: msg,
	}
}

// InvalidTransition returns a new Failure for a lifecycle operation attempted
// on an entity whose current status does not permit it.
func InvalidTransition(entity, status, action string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("%s with status %q does not allow %s", entity, status, action),
	}
}

// CapacityBelowOccupancy returns a new Failure for an edit that would shrink
// a capacity bound under the seats already confirmed against it.
func CapacityBelowOccupancy(max, occupied int) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: fmt.Sprintf("max participants %d cannot drop below current occupancy %d", max, occupied),
	}
}

// CapacityFailure is a Failure that also reports how many seats remain, so
// the caller can retry with a smaller party.
type CapacityFailure struct {
	Failure
	Available int `json:"available"`
}

func (e *CapacityFailure) Unwrap() error {
	return &e.Failure
}

// InsufficientSeats returns a new CapacityFailure carrying the remaining seat count.
func InsufficientSeats(available int) error {
	return &CapacityFailure{
		Failure: Failure{
			Code:    http.StatusConflict,
			Message: fmt.Sprintf("not enough seats available: %d remaining", available),
		},
		Available: available,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
