package response

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

type member struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func TestSuccess_Exclusivity(t *testing.T) {
	env := Success(member{ID: 1, Email: "a@test.com"})
	require.True(t, env.IsSuccess())

	data, ok := env.Data()
	assert.True(t, ok)
	assert.Equal(t, int64(1), data.ID)

	_, hasErr := env.Err()
	assert.False(t, hasErr)
}

func TestSuccess_NilPointerIsStillSuccess(t *testing.T) {
	env := Success[*member](nil)
	require.True(t, env.IsSuccess())

	b, err := json.Marshal(env)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, true, out["success"])
	assert.Contains(t, out, "data")
	assert.Nil(t, out["data"])
	assert.Nil(t, out["error"])
}

func TestFailure_Exclusivity(t *testing.T) {
	env := Failure[member](NewErrorPayload("MEMBER-404", "Member not found", "/members/1"))
	require.False(t, env.IsSuccess())

	_, hasData := env.Data()
	assert.False(t, hasData)

	p, ok := env.Err()
	require.True(t, ok)
	assert.Equal(t, "MEMBER-404", p.Code())
	assert.Equal(t, "Member not found", p.Message())
	assert.Equal(t, "/members/1", p.Path())
	assert.Nil(t, p.Details())
}

func TestEnvelope_WireShape(t *testing.T) {
	at := time.Date(2026, 2, 24, 22, 10, 0, 0, time.Local)
	fixClock(t, at)

	b, err := json.Marshal(Success(member{ID: 7, Email: "a@test.com"}))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"success":true,"data":{"id":7,"email":"a@test.com"},"error":null,"timestamp":"2026-02-24T22:10:00"}`,
		string(b))
	// key order is part of the contract
	assert.Equal(t,
		`{"success":true,"data":{"id":7,"email":"a@test.com"},"error":null,"timestamp":"2026-02-24T22:10:00"}`,
		string(b))

	b, err = json.Marshal(Failure[any](NewErrorPayload("COMMON-405", "Method not allowed", "/members/5")))
	require.NoError(t, err)
	assert.Equal(t,
		`{"success":false,"data":null,"error":{"code":"COMMON-405","message":"Method not allowed","path":"/members/5","timestamp":"2026-02-24T22:10:00","details":null},"timestamp":"2026-02-24T22:10:00"}`,
		string(b))
}

func TestErrorPayload_DetailsAreCopied(t *testing.T) {
	in := []FieldViolation{{Field: "email", Message: "email is required"}, {Field: "name", Message: "name is required"}}
	p := NewErrorPayloadWithDetails("COMMON-001", "Validation failed", "/members", in)

	in[0].Field = "mutated"
	got := p.Details()
	assert.Equal(t, "email", got[0].Field)

	got[1].Field = "mutated"
	assert.Equal(t, "name", p.Details()[1].Field)

	empty := NewErrorPayloadWithDetails("COMMON-001", "Validation failed", "/members", nil)
	b, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"details":[]`)
}

func TestLocalDateTime_FractionTrimmed(t *testing.T) {
	at := time.Date(2026, 2, 24, 22, 10, 0, 120_000_000, time.Local)
	assert.Equal(t, "2026-02-24T22:10:00.12", LocalDateTime(at).String())

	var back LocalDateTime
	require.NoError(t, json.Unmarshal([]byte(`"2026-02-24T22:10:00.12"`), &back))
	assert.True(t, back.Time().Equal(at))

	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &back))
}

func TestEnvelope_RoundTrip(t *testing.T) {
	fixClock(t, time.Date(2026, 2, 24, 22, 10, 0, 0, time.Local))

	b, err := json.Marshal(Failure[member](NewErrorPayloadWithDetails("COMMON-001", "Validation failed", "/members",
		[]FieldViolation{{Field: "email", Message: "email is required"}})))
	require.NoError(t, err)

	var env Envelope[member]
	require.NoError(t, json.Unmarshal(b, &env))
	assert.False(t, env.IsSuccess())
	p, ok := env.Err()
	require.True(t, ok)
	assert.Equal(t, []FieldViolation{{Field: "email", Message: "email is required"}}, p.Details())

	b, err = json.Marshal(Success([]member{{ID: 2}, {ID: 1}}))
	require.NoError(t, err)
	var list Envelope[[]member]
	require.NoError(t, json.Unmarshal(b, &list))
	items, ok := list.Data()
	require.True(t, ok)
	assert.Len(t, items, 2)
}
