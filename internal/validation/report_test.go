package validation_test

import (
	"encoding/json"
	"testing"

	"akun/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_EmptyByDefault(t *testing.T) {
	var r validation.Report
	assert.True(t, r.IsEmpty())
	assert.Empty(t, r.Issues())
	assert.Panics(t, func() { r.Err() })
}

func TestReport_ErrGroupsByFieldInOrder(t *testing.T) {
	var r validation.Report
	r.Append("password", "too short")
	r.Append("username", "invalid username")
	r.Append("password", "too short") // duplicates are kept
	r.Append("email", "not a valid email address")

	assert.False(t, r.IsEmpty())
	assert.Len(t, r.Issues(), 4)

	err := r.Err()
	require.NotNil(t, err)

	fields := err.Fields()
	require.Len(t, fields, 3)
	assert.Equal(t, "password", fields[0].Field)
	assert.Equal(t, []string{"too short", "too short"}, fields[0].Messages)
	assert.Equal(t, "username", fields[1].Field)
	assert.Equal(t, "email", fields[2].Field)

	assert.True(t, err.Has("username"))
	assert.False(t, err.Has("confirm_password"))
	assert.Nil(t, err.Messages("confirm_password"))
	assert.Contains(t, err.Error(), "username: invalid username")
}

func TestError_MarshalJSONKeepsOrder(t *testing.T) {
	var r validation.Report
	r.Append("username", "invalid username")
	r.Append("email", "not a valid email address")
	r.Append("confirm_password", "confirm password not match the password")

	b, err := json.Marshal(r.Err())
	require.NoError(t, err)
	assert.Equal(t,
		`{"username":["invalid username"],"email":["not a valid email address"],"confirm_password":["confirm password not match the password"]}`,
		string(b))
}
