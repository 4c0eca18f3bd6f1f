package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email    string   `validate:"required,email"`
	Quantity int      `validate:"min=1"`
	Format   string   `validate:"oneof=2D 3D IMAX"`
	SeatIDs  []string `validate:"required,min=1,dive,uuid"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:    "not-an-email",
		Quantity: 0,
		Format:   "4D",
		SeatIDs:  []string{"x"},
	})

	assert.Equal(t, "Invalid email format", errs["Email"])
	assert.Equal(t, "Minimum is 1", errs["Quantity"])
	assert.Equal(t, "Must be one of: 2D, 3D, IMAX", errs["Format"])
	assert.Equal(t, "Must be a valid UUID", errs["SeatIDs[0]"])
}

func TestValidateStruct_Valid(t *testing.T) {
	errs := ValidateStruct(sampleRequest{
		Email:    "ana@example.com",
		Quantity: 2,
		Format:   "IMAX",
		SeatIDs:  []string{"7c9e6679-7425-40de-944b-e07fc1f90ae7"},
	})

	assert.Nil(t, errs)
}

func TestFormatValidationErrors_Sorted(t *testing.T) {
	msg := FormatValidationErrors(map[string]string{
		"b": "second",
		"a": "first",
	})

	assert.Equal(t, "a: first; b: second", msg)
}
