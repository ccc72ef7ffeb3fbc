package surreal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind distinguishes the two ways a request can fail.
type Kind int

const (
	// KindTransport means no HTTP response was obtained (DNS, refused connection, timeout).
	KindTransport Kind = iota + 1
	// KindServer means a response arrived but reported failure.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

var (
	// ErrTransport matches any *Error of KindTransport via errors.Is.
	ErrTransport = errors.New("surreal: transport failure")
	// ErrServer matches any *Error of KindServer via errors.Is.
	ErrServer = errors.New("surreal: server error")
	// ErrEmptyResult is returned by single-record writes when the server answers with no record.
	ErrEmptyResult = errors.New("surreal: empty result")
)

// Error describes one failed request.
//
// For transport failures Status holds the transport message and Body is nil.
// For server failures Status is the decimal HTTP status code and Body holds
// the full parsed JSON response (nil when the body was not valid JSON).
type Error struct {
	Kind       Kind
	Status     string
	StatusCode int
	Body       any
	Raw        []byte
	Err        error
}

func newTransportError(err error) *Error {
	return &Error{
		Kind:   KindTransport,
		Status: err.Error(),
		Err:    err,
	}
}

func newServerError(code int, raw []byte, body any, cause error) *Error {
	return &Error{
		Kind:       KindServer,
		Status:     strconv.Itoa(code),
		StatusCode: code,
		Body:       body,
		Raw:        raw,
		Err:        cause,
	}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Kind == KindTransport {
		return "surrealdb error: " + e.Status
	}
	msg := fmt.Sprintf("surrealdb error: %s %s", e.Status, bodySnippet(e.Raw))
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return strings.TrimSpace(msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is lets errors.Is match the ErrTransport and ErrServer sentinels.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// Detail returns the server supplied failure description, if any.
func (e *Error) Detail() string {
	if e == nil {
		return ""
	}
	obj, ok := e.Body.(map[string]any)
	if arr, isArr := e.Body.([]any); isArr && len(arr) > 0 {
		obj, ok = arr[0].(map[string]any)
	}
	if !ok {
		return ""
	}
	for _, key := range []string{"detail", "information", "description", "details"} {
		if s, ok := obj[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// AsError extracts a *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func bodySnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
