package registration

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrNoServiceSelected is wrapped by SubmitError when the active
	// checklist has nothing checked.
	ErrNoServiceSelected = errors.New("no service selected")
	// ErrSubmitInFlight is returned by BeginSubmit while a submission is running.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrUnknownService is returned for service IDs not in the catalog.
	ErrUnknownService = errors.New("unknown service")
	// ErrUnknownCreatorType is returned for creator types other than
	// photographer and editor.
	ErrUnknownCreatorType = errors.New("unknown creator type")
	// ErrUnknownPaymentMethod is returned for payment IDs not in the catalog.
	ErrUnknownPaymentMethod = errors.New("unknown payment method")
)

// ErrorKind classifies why a submission failed.
type ErrorKind int

const (
	NoServiceSelected ErrorKind = iota + 1
	InvalidInput
	RegistrationRejected
	NetworkError
)

func (k ErrorKind) String() string {
	switch k {
	case NoServiceSelected:
		return "no_service_selected"
	case InvalidInput:
		return "invalid_input"
	case RegistrationRejected:
		return "registration_rejected"
	case NetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// SubmitError is the failure outcome of a submission.
type SubmitError struct {
	Kind ErrorKind
	// Message is the server's error text for RegistrationRejected, otherwise
	// a short description.
	Message string
	// Fields maps field names to messages for InvalidInput.
	Fields map[string]string
	Err    error
}

func (e *SubmitError) Error() string {
	if e.Err != nil && e.Kind == NetworkError {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the person filling in the form.
func (e *SubmitError) UserMessage() string {
	switch e.Kind {
	case NoServiceSelected:
		return "Please select at least one service to offer"
	case InvalidInput:
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s: %s", k, e.Fields[k]))
		}
		return "Please fix the following fields:\n" + strings.Join(lines, "\n")
	case RegistrationRejected:
		return "Registration failed: " + e.Message
	default:
		return "An error occurred. Please try again later."
	}
}

// RejectedError is returned by a Registrar when the registration service
// answers with a non-2xx status. Any other Register error is treated as a
// transport failure.
type RejectedError struct {
	Status  int
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("registration rejected (%d %s): %s", e.Status, http.StatusText(e.Status), e.Message)
}
