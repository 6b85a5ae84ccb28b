package types

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomValidators(t *testing.T) {
	v := NewValidator()

	type sample struct {
		Username string `validate:"username"`
		Slug     string `validate:"slug"`
		Color    string `validate:"hexcolor"`
	}

	assert.NoError(t, v.Struct(sample{Username: "chef.bob+1", Slug: "breakfast_2", Color: "#E26C2D"}))
	assert.Error(t, v.Struct(sample{Username: "chef bob", Slug: "breakfast", Color: "#E26C2D"}))
	assert.Error(t, v.Struct(sample{Username: "chef", Slug: "breakfast!", Color: "#E26C2D"}))
	assert.Error(t, v.Struct(sample{Username: "chef", Slug: "breakfast", Color: "orange"}))
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, Pagination{Page: 1, Limit: 6}.Offset())
	assert.Equal(t, 12, Pagination{Page: 3, Limit: 6}.Offset())
	assert.Equal(t, 0, Pagination{Page: 0, Limit: 6}.Offset())
}

func TestValidationErrorsUseJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Struct(TagInput{Name: "Breakfast", Color: "#E26C2D", Slug: "bad slug"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "slug", verrs[0].Field())
}
