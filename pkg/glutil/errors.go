package glutil

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Kind classifies a failure.
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindValidation means the input was rejected before any driver call.
	KindValidation
	// KindDriverRejected means a driver call reported an error.
	KindDriverRejected
	// KindResourceExhausted means the driver handed back a zero handle.
	KindResourceExhausted
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDriverRejected:
		return "driver rejected"
	case KindResourceExhausted:
		return "resource exhausted"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyData            = errors.New("data is empty")
	ErrInvalidUsageHint     = errors.New("invalid buffer usage hint")
	ErrUpload               = errors.New("upload failed")
	ErrInvalidStage         = errors.New("invalid shader stage")
	ErrDuplicateStage       = errors.New("shader stage already added")
	ErrEmptyProgram         = errors.New("no shaders added to the program")
	ErrBuilderConsumed      = errors.New("program builder already built or closed")
	ErrCompile              = errors.New("shader compilation failed")
	ErrLink                 = errors.New("program linking failed")
	ErrEmptyLayout          = errors.New("attribute sizes are empty")
	ErrInvalidComponentType = errors.New("invalid component type")
	ErrInvalidAttributeSize = errors.New("attribute size must be between 1 and 4")
	ErrLayoutMismatch       = errors.New("stride or offsets do not match a packed layout")
	ErrSizeMismatch         = errors.New("data length does not match size")
	ErrInvalidPixelFormat   = errors.New("invalid pixel format")
	ErrInvalidDimensions    = errors.New("texture dimensions must be positive")
	ErrInvalidHandle        = errors.New("handle is not valid")
	ErrZeroHandle           = errors.New("driver returned a zero handle")
)

// Error is returned by every helper in this package except for compile and
// link failures, which carry the driver's info log (see CompileError and
// LinkError).
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(op string, err error) error {
	return &Error{Op: op, Kind: KindValidation, Err: err}
}

// CompileError carries the compiler's info log for a failed shader stage.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

func (e *CompileError) Is(target error) bool {
	return target == ErrCompile
}

// LinkError carries the linker's info log.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "program linking failed: " + e.Log
}

func (e *LinkError) Is(target error) bool {
	return target == ErrLink
}

// KindOf reports the Kind of err, looking through wrapping.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var ce *CompileError
	var le *LinkError
	var de *DriverError
	if errors.As(err, &ce) || errors.As(err, &le) || errors.As(err, &de) {
		return KindDriverRejected
	}
	return KindUnknown
}

// ErrorCode is a value of the GL error register.
type ErrorCode uint32

const (
	NoError                     ErrorCode = noError
	InvalidEnum                 ErrorCode = invalidEnum
	InvalidValue                ErrorCode = invalidValue
	InvalidOperation            ErrorCode = invalidOperation
	StackOverflow               ErrorCode = stackOverflow
	StackUnderflow              ErrorCode = stackUnderflow
	OutOfMemory                 ErrorCode = outOfMemory
	InvalidFramebufferOperation ErrorCode = invalidFramebufferOperation
	ContextLost                 ErrorCode = contextLost
)

func (c ErrorCode) String() string {
	switch c {
	case NoError:
		return "GL_NO_ERROR: No error has been recorded."
	case InvalidEnum:
		return "GL_INVALID_ENUM: An unacceptable value is specified for an enumerated argument."
	case InvalidValue:
		return "GL_INVALID_VALUE: A numeric argument is out of range."
	case InvalidOperation:
		return "GL_INVALID_OPERATION: The specified operation is not allowed in the current state."
	case StackOverflow:
		return "GL_STACK_OVERFLOW: A stack pushing operation would overflow the maximum stack size."
	case StackUnderflow:
		return "GL_STACK_UNDERFLOW: A stack popping operation would underflow the minimum stack size."
	case OutOfMemory:
		return "GL_OUT_OF_MEMORY: There is not enough memory left to execute the command."
	case InvalidFramebufferOperation:
		return "GL_INVALID_FRAMEBUFFER_OPERATION: The framebuffer object is not complete."
	case ContextLost:
		return "GL_CONTEXT_LOST: The OpenGL context has been lost due to a graphics card reset."
	default:
		return "Unknown OpenGL error"
	}
}

// DriverError is one code read from the GL error register.
type DriverError struct {
	Code ErrorCode
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("OpenGL Error (%d): %s", uint32(e.Code), e.Code)
}

// maxDrainedErrors bounds CheckError. A lost context may keep reporting
// GL_CONTEXT_LOST indefinitely.
const maxDrainedErrors = 32

// CheckError drains the driver's error register. It returns nil when no
// error is pending, otherwise one *DriverError per code, combined.
func CheckError(d Driver) error {
	var errs error
	for i := 0; i < maxDrainedErrors; i++ {
		code := d.GetError()
		if code == noError {
			break
		}
		errs = multierr.Append(errs, &DriverError{Code: ErrorCode(code)})
	}
	return errs
}

// ClearErrors discards any pending driver errors.
func ClearErrors(d Driver) {
	for i := 0; i < maxDrainedErrors; i++ {
		if d.GetError() == noError {
			return
		}
	}
}
