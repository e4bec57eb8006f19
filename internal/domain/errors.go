package domain

import "fmt"

// errors.go defines the error taxonomy shared by axis building, scoring and
// evaluation. Callers match them with errors.As.
type domainErr struct {
	message string
}

// Error returns the error message.
func (e domainErr) Error() string {
	return e.message
}

// EmptyInputError is returned when an operation needs at least one text and got none.
type EmptyInputError struct {
	domainErr
	Input string
}

// NewEmptyInputError creates an EmptyInputError naming the empty input.
func NewEmptyInputError(input string) *EmptyInputError {
	return &EmptyInputError{
		domainErr: domainErr{message: fmt.Sprintf("%s must not be empty", input)},
		Input:     input,
	}
}

// AxisNotFoundError is returned when no stored axis exists at Path.
type AxisNotFoundError struct {
	domainErr
	Path string
}

// NewAxisNotFoundError creates an AxisNotFoundError for path.
func NewAxisNotFoundError(path string) *AxisNotFoundError {
	return &AxisNotFoundError{
		domainErr: domainErr{message: fmt.Sprintf("semantic axis file not found: %s", path)},
		Path:      path,
	}
}

// AxisFormatError is returned when a stored axis is not a flat float64 array.
type AxisFormatError struct {
	domainErr
	Path string
}

// NewAxisFormatError creates an AxisFormatError for path with a reason.
func NewAxisFormatError(path, reason string) *AxisFormatError {
	return &AxisFormatError{
		domainErr: domainErr{message: fmt.Sprintf("malformed semantic axis file %s: %s", path, reason)},
		Path:      path,
	}
}

// DegenerateAxisError is returned when an axis has zero norm.
type DegenerateAxisError struct {
	domainErr
}

// NewDegenerateAxisError creates a DegenerateAxisError.
func NewDegenerateAxisError() *DegenerateAxisError {
	return &DegenerateAxisError{
		domainErr: domainErr{message: "semantic axis has zero norm; projection is undefined"},
	}
}

// ElementNotFoundError is returned when a ranked text is missing from the expected order.
type ElementNotFoundError struct {
	domainErr
	Text string
}

// NewElementNotFoundError creates an ElementNotFoundError for text.
func NewElementNotFoundError(text string) *ElementNotFoundError {
	return &ElementNotFoundError{
		domainErr: domainErr{message: fmt.Sprintf("text %q not found in expected order", text)},
		Text:      text,
	}
}

// DimensionMismatchError is returned when two vectors that must align do not.
type DimensionMismatchError struct {
	domainErr
	Want int
	Got  int
}

// NewDimensionMismatchError creates a DimensionMismatchError.
func NewDimensionMismatchError(want, got int) *DimensionMismatchError {
	return &DimensionMismatchError{
		domainErr: domainErr{message: fmt.Sprintf("embedding dimension mismatch: want %d, got %d", want, got)},
		Want:      want,
		Got:       got,
	}
}

// ZeroSpreadError is returned when both classes have zero standard deviation,
// which leaves the separation distance undefined.
type ZeroSpreadError struct {
	domainErr
	MeanGap float64
}

// NewZeroSpreadError creates a ZeroSpreadError carrying the absolute gap between class means.
func NewZeroSpreadError(meanGap float64) *ZeroSpreadError {
	return &ZeroSpreadError{
		domainErr: domainErr{message: fmt.Sprintf("both classes have zero spread (mean gap %.4f); separation is undefined", meanGap)},
		MeanGap:   meanGap,
	}
}

// ValidationErr represents an error when validation fails.
type ValidationErr struct {
	domainErr
}

// NewValidationErr creates a new ValidationErr with the given message.
func NewValidationErr(message string) *ValidationErr {
	return &ValidationErr{
		domainErr: domainErr{message: message},
	}
}
