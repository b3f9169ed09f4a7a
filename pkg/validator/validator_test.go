package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testForm struct {
	Name   string   `form:"name" validate:"required,min=3"`
	Price  *float64 `form:"price" validate:"required,gte=1"`
	Rating float64  `json:"rating" validate:"gte=0,lte=5"`
	Note   string   `validate:"max=4"`
}

func ptr[T any](v T) *T { return &v }

func TestValidate_Success(t *testing.T) {
	f := testForm{Name: "Lamp", Price: ptr(10.0), Rating: 4}
	assert.NoError(t, Validate(f))
}

func TestValidate_FieldNamesFollowTags(t *testing.T) {
	f := testForm{Rating: 7, Note: "too long"}
	err := Validate(f)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Equal(t, "is required", fields["name"])
	assert.Equal(t, "is required", fields["price"])
	assert.Equal(t, "must be less than or equal to 5", fields["rating"])
	assert.Equal(t, "must be at most 4 characters", fields["Note"])
}

func TestValidate_MinLengthAndMinValue(t *testing.T) {
	f := testForm{Name: "ab", Price: ptr(0.0)}
	err := Validate(f)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be at least 3 characters", valErr.Fields()["name"])
	assert.Equal(t, "must be greater than or equal to 1", valErr.Fields()["price"])
}

func TestValidationError_WithFieldAndMerge(t *testing.T) {
	err := NewFieldError("stock", "must be a whole number")
	assert.False(t, err.Empty())

	other := Validate(testForm{Name: "Lamp"})
	err.Merge(other)
	err.Merge(errors.New("not a validation error"))

	fields := err.Fields()
	assert.Equal(t, "must be a whole number", fields["stock"])
	assert.Equal(t, "is required", fields["price"])
}

func TestValidationError_ErrorStringIsSorted(t *testing.T) {
	err := NewFieldError("b", "second").WithField("a", "first")
	assert.Equal(t, "field 'a' first; field 'b' second", err.Error())
}

func TestValidationError_FirstMessageWins(t *testing.T) {
	err := NewFieldError("price", "must be a number").WithField("price", "is required")
	assert.Equal(t, "must be a number", err.Fields()["price"])
}

func TestValidationError_Empty(t *testing.T) {
	assert.True(t, (&ValidationError{}).Empty())
}
