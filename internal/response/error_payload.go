package response

import "encoding/json"

// FieldViolation describes one invalid input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorPayload is the "error" member of a failed envelope.
type ErrorPayload struct {
	code      string
	message   string
	path      string
	timestamp LocalDateTime
	details   []FieldViolation
}

// NewErrorPayload builds a payload without details.
func NewErrorPayload(code, message, path string) ErrorPayload {
	return ErrorPayload{code: code, message: message, path: path, timestamp: LocalDateTime(now())}
}

// NewErrorPayloadWithDetails builds a payload carrying field violations in
// the given order. The slice is copied; details is never serialized as null.
func NewErrorPayloadWithDetails(code, message, path string, details []FieldViolation) ErrorPayload {
	p := NewErrorPayload(code, message, path)
	p.details = make([]FieldViolation, len(details))
	copy(p.details, details)
	return p
}

func (p ErrorPayload) Code() string             { return p.code }
func (p ErrorPayload) Message() string          { return p.message }
func (p ErrorPayload) Path() string             { return p.path }
func (p ErrorPayload) Timestamp() LocalDateTime { return p.timestamp }

// Details returns a copy of the field violations, or nil when the payload
// has none.
func (p ErrorPayload) Details() []FieldViolation {
	if p.details == nil {
		return nil
	}
	cp := make([]FieldViolation, len(p.details))
	copy(cp, p.details)
	return cp
}

type errorPayloadJSON struct {
	Code      string           `json:"code"`
	Message   string           `json:"message"`
	Path      string           `json:"path"`
	Timestamp LocalDateTime    `json:"timestamp"`
	Details   []FieldViolation `json:"details"`
}

// MarshalJSON implements json.Marshaler.
func (p ErrorPayload) MarshalJSON() ([]byte, error) {
	return json.Marshal(errorPayloadJSON{
		Code:      p.code,
		Message:   p.message,
		Path:      p.path,
		Timestamp: p.timestamp,
		Details:   p.details,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ErrorPayload) UnmarshalJSON(b []byte) error {
	var in errorPayloadJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*p = ErrorPayload{
		code:      in.Code,
		message:   in.Message,
		path:      in.Path,
		timestamp: in.Timestamp,
		details:   in.Details,
	}
	return nil
}
