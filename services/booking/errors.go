package booking

import (
	"errors"
	"fmt"
)

var (
	ErrSessionNotFound  = errors.New("booking session not found or expired")
	ErrInvalidTierTable = errors.New("invalid discount tier table")
)

const (
	CodeWrongStep          = "wrongStep"
	CodeDuplicateService   = "duplicateService"
	CodeServiceNotSelected = "serviceNotSelected"
	CodePackageBaseExists  = "packageBaseExists"
	CodeMissingPackageBase = "missingPackageBase"
	CodeInvalidDate        = "invalidDate"
	CodeInvalidTimeSlot    = "invalidTimeSlot"
	CodeIncomplete         = "incomplete"
	CodeNoPendingUpsell    = "noPendingUpsell"
	CodeSlotTaken          = "slotTaken"
)

// FlowError is returned when a request does not fit the state of the booking flow.
type FlowError struct {
	Code    string
	Message string
}

func (e *FlowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewFlowError(code, msg string) error {
	return &FlowError{
		Code:    code,
		Message: msg,
	}
}
