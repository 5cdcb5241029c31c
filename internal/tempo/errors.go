package tempo

import "errors"

var (
	ErrEmptyAudio    = errors.New("audio payload is empty")
	ErrAudioTooLarge = errors.New("audio payload exceeds the upload limit")
	ErrNoTempo       = errors.New("no tempo could be estimated")
)

// Decoding error codes
const (
	CodeEmpty     = "EMPTY_AUDIO"
	CodeTooLarge  = "AUDIO_TOO_LARGE"
	CodeTempFile  = "TEMP_FILE_FAILED"
	CodeDecode    = "DECODING_FAILED"
	CodeNoTempo   = "NO_TEMPO"
	CodeCancelled = "CANCELLED"
)

func (e *DecodingError) Error() string {
	msg := e.Message
	if e.Name != "" {
		msg = e.Name + ": " + msg
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

// DecodingError is returned when audio could not be turned into a tempo
type DecodingError struct {
	Code    string `json:"code"`
	Name    string `json:"name,omitempty"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *DecodingError) Unwrap() error {
	return e.Cause
}

// NewDecodingError creates a new decoding error
func NewDecodingError(code, name, message string, cause error) *DecodingError {
	return &DecodingError{
		Code:    code,
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}

// IsDecodingError reports whether err is or wraps a DecodingError
func IsDecodingError(err error) bool {
	var de *DecodingError
	return errors.As(err, &de)
}
