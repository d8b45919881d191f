package generation

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Kind classifies a generation failure.
type Kind int

const (
	// KindUnknown is the catch-all for unanticipated provider failures.
	KindUnknown Kind = iota
	// KindValidation means a precondition failed (empty prompt, missing result).
	KindValidation
	// KindNetwork means the provider answered with a non-2xx status.
	KindNetwork
	// KindGeneration means the provider could not produce usable cards.
	KindGeneration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindGeneration:
		return "generation"
	default:
		return "unknown"
	}
}

// Error codes carried by Error.Code.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeNetwork    = "NETWORK_ERROR"
	CodeUnknown    = "UNKNOWN_ERROR"
	CodeGeneration = "GENERATION_ERROR"
)

// Messages returned to callers.
const (
	MsgEmptyPrompt          = "Prompt cannot be empty"
	MsgMissingResult        = "Invalid response format - missing result"
	MsgUnexpected           = "An unexpected error occurred"
	MsgInvalidCardContent   = "AI generated invalid card content"
	MsgCommunicationFailure = "Failed to communicate with AI service"
)

var (
	// ErrMalformedResponse marks provider output that could not be decoded
	// into card candidates.
	ErrMalformedResponse = errors.New("malformed card content")

	// ErrInvalidConfig is returned when a client configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generation client configuration")
)

// Error is the single error type of the generation pipeline. Callers branch
// on Kind rather than on concrete types.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Details holds provider-side detail such as a response body or the
	// message of a wrapped failure.
	Details string
	// StatusCode is set for KindNetwork.
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError reports a failed precondition.
func NewValidationError(message string, cause error) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Message: message, Err: cause}
}

// NewNetworkError reports a non-2xx provider response.
func NewNetworkError(statusCode int, body string) *Error {
	return &Error{
		Kind:       KindNetwork,
		Code:       CodeNetwork,
		Message:    "API request failed: " + statusName(statusCode),
		Details:    body,
		StatusCode: statusCode,
	}
}

// NewGenerationError reports unusable model output or a failed provider call
// surfaced at the pipeline boundary.
func NewGenerationError(message string, cause error) *Error {
	e := &Error{Kind: KindGeneration, Code: CodeGeneration, Message: message, Err: cause}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// WrapUnknown wraps err as a KindUnknown error. Errors that already carry a
// generation Error in their chain are returned unchanged.
func WrapUnknown(err error) error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return err
	}
	return &Error{
		Kind:    KindUnknown,
		Code:    CodeUnknown,
		Message: MsgUnexpected,
		Details: err.Error(),
		Err:     err,
	}
}

// KindOf returns the Kind of the first Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return KindUnknown, false
}

// IsKind reports whether err carries an Error of kind k.
func IsKind(err error, k Kind) bool {
	got, ok := KindOf(err)
	return ok && got == k
}

// statusName renders 400 as "BadRequest", 503 as "ServiceUnavailable".
func statusName(code int) string {
	text := http.StatusText(code)
	if text == "" {
		return strconv.Itoa(code)
	}
	return strings.NewReplacer(" ", "", "-", "").Replace(text)
}
