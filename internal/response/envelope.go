// Package response defines the uniform JSON envelope every endpoint returns.
//
// Success and failure share one shape so clients can always read the same
// four keys:
//
//	{ "success": true,  "data": {...}, "error": null,  "timestamp": "2026-02-24T22:10:00" }
//	{ "success": false, "data": null,  "error": {...}, "timestamp": "2026-02-24T22:10:00" }
//
// Envelopes are only built through Success and Failure and cannot be changed
// afterwards.
package response

import "encoding/json"

// Envelope wraps either a result of type T or an ErrorPayload.
type Envelope[T any] struct {
	success   bool
	data      T
	err       *ErrorPayload
	timestamp LocalDateTime
}

// Success returns a successful envelope carrying data. The envelope is a
// success whatever data holds: a nil pointer or map still reports success and
// renders "data":null, so callers pass the value they mean to return.
func Success[T any](data T) Envelope[T] {
	return Envelope[T]{success: true, data: data, timestamp: LocalDateTime(now())}
}

// Failure returns a failed envelope carrying payload.
func Failure[T any](payload ErrorPayload) Envelope[T] {
	p := payload
	return Envelope[T]{success: false, err: &p, timestamp: LocalDateTime(now())}
}

// IsSuccess reports whether e was built with Success.
func (e Envelope[T]) IsSuccess() bool { return e.success }

// Data returns the result and true for a successful envelope, or the zero
// value and false for a failed one.
func (e Envelope[T]) Data() (T, bool) {
	if !e.success {
		var zero T
		return zero, false
	}
	return e.data, true
}

// Err returns the error payload and true for a failed envelope.
func (e Envelope[T]) Err() (ErrorPayload, bool) {
	if e.success || e.err == nil {
		return ErrorPayload{}, false
	}
	return *e.err, true
}

// Timestamp returns the instant e was built.
func (e Envelope[T]) Timestamp() LocalDateTime { return e.timestamp }

type envelopeJSON struct {
	Success   bool          `json:"success"`
	Data      any           `json:"data"`
	Error     *ErrorPayload `json:"error"`
	Timestamp LocalDateTime `json:"timestamp"`
}

// MarshalJSON emits the four envelope keys; the absent side is null.
func (e Envelope[T]) MarshalJSON() ([]byte, error) {
	out := envelopeJSON{Success: e.success, Timestamp: e.timestamp}
	if e.success {
		out.Data = e.data
	} else {
		out.Error = e.err
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes an envelope produced by MarshalJSON. It is meant for
// clients and tests reading responses back.
func (e *Envelope[T]) UnmarshalJSON(b []byte) error {
	var in struct {
		Success   bool            `json:"success"`
		Data      json.RawMessage `json:"data"`
		Error     *ErrorPayload   `json:"error"`
		Timestamp LocalDateTime   `json:"timestamp"`
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	var data T
	if in.Success && len(in.Data) > 0 {
		if err := json.Unmarshal(in.Data, &data); err != nil {
			return err
		}
	}
	*e = Envelope[T]{success: in.Success, data: data, timestamp: in.Timestamp}
	if !in.Success {
		e.err = in.Error
	}
	return nil
}
