package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Anouar-Rezrazi/Konecta-Project/internal/error/code"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input    string
		want     time.Time
		dateOnly bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{" 2024-03-15 ", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), false},
		{"2024-03-15T10:30:00.250Z", time.Date(2024, 3, 15, 10, 30, 0, 250000000, time.UTC), false},
		{"2024-03-15T10:30:00+01:00", time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), false},
		{"2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), false},
		{"2024-03-15T10:30", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), false},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, dateOnly, err := ParseDate(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, time.UTC, got.Location())
			assert.Equal(t, tt.dateOnly, dateOnly)
		})
	}

	for _, bad := range []string{"", "tomorrow", "15/03/2024", "2024-02-30"} {
		_, _, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&LoginRequest{Email: "a@b.com", Password: "x"}))

	err := ValidateStruct(&CreateUserRequest{Email: "bad", Password: "123", Name: "", Role: "owner"})
	appErr, ok := code.As(err)
	require.True(t, ok)
	assert.Equal(t, code.ErrValidation, appErr.Code)

	messages := map[string]string{}
	for _, issue := range appErr.Details {
		messages[issue.Field] = issue.Message
	}
	assert.Equal(t, map[string]string{
		"email":    "email must be a valid email",
		"password": "password must be at least 6 characters",
		"name":     "name is required",
		"role":     "role must be one of: agent, supervisor",
	}, messages)
}

func TestDecodeError(t *testing.T) {
	var req CreateCallRequest
	err := json.Unmarshal([]byte(`{"duration":"long"}`), &req)
	require.Error(t, err)

	appErr, ok := code.As(DecodeError(err))
	require.True(t, ok)
	assert.Equal(t, code.ErrValidation, appErr.Code)
	assert.True(t, appErr.HasField("duration"))

	appErr, ok = code.As(DecodeError(errors.New("unexpected EOF")))
	require.True(t, ok)
	assert.Equal(t, code.ErrBind, appErr.Code)
	assert.Equal(t, 400, appErr.Status())
}
