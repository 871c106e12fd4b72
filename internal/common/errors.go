package common

import "fmt"

// NotFoundError indicates a resource was not found.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id '%s' not found", e.Resource, e.ID)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError indicates invalid input data, including a participant
// missing a required field (name or team) at render time.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// UnauthorizedError indicates missing or invalid authentication.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "unauthorized"
	}
	return e.Message
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// InvalidTemplateError indicates the uploaded bytes are not a usable
// certificate template. A batch cannot start with an invalid template.
type InvalidTemplateError struct {
	Reason string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid template: %s", e.Reason)
}

// NewInvalidTemplateError creates a new InvalidTemplateError.
func NewInvalidTemplateError(reason string) *InvalidTemplateError {
	return &InvalidTemplateError{Reason: reason}
}

// RenderError indicates a lower-level failure while populating, drawing or
// saving a certificate document. Font fallback is not a RenderError; it is
// recovered via the built-in font and only logged.
type RenderError struct {
	Participant string
	Message     string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering certificate for '%s': %s", e.Participant, e.Message)
}

// NewRenderError creates a new RenderError tagged with the participant's name.
func NewRenderError(participant, message string) *RenderError {
	return &RenderError{Participant: participant, Message: message}
}

// DeliveryError indicates the mail relay rejected one participant's
// certificate. It never halts delivery to the remaining participants.
type DeliveryError struct {
	Recipient string
	Message   string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering to '%s': %s", e.Recipient, e.Message)
}

// NewDeliveryError creates a new DeliveryError.
func NewDeliveryError(recipient, message string) *DeliveryError {
	return &DeliveryError{Recipient: recipient, Message: message}
}

// EmptySelectionError indicates a batch was requested with zero eligible
// participants. Surfaced before any rendering starts.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "no participants selected"
}

// NewEmptySelectionError creates a new EmptySelectionError.
func NewEmptySelectionError() *EmptySelectionError {
	return &EmptySelectionError{}
}
