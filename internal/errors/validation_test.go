package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		add     func(v *ValidationError)
		wantErr bool
		wantMsg string
		fields  []string
	}{
		{
			name:    "empty",
			add:     func(v *ValidationError) {},
			wantMsg: "validation failed",
		},
		{
			name:    "single field",
			add:     func(v *ValidationError) { v.AddFieldError("name", "must be at least 2 characters") },
			wantErr: true,
			wantMsg: "validation failed: name: must be at least 2 characters",
			fields:  []string{"name"},
		},
		{
			name: "insertion order kept",
			add: func(v *ValidationError) {
				v.AddFieldErrorf("unassigned", "%s", "wisdom")
				v.AddFieldError("duplicates", "15 used twice")
				v.AddFieldErrorf("unassigned", "%s", "charisma")
			},
			wantErr: true,
			wantMsg: "validation failed: unassigned: wisdom, charisma; duplicates: 15 used twice",
			fields:  []string{"unassigned", "duplicates"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidationError()
			tt.add(v)

			assert.Equal(t, tt.wantErr, v.HasErrors())
			assert.Equal(t, tt.wantMsg, v.Error())
			for _, f := range tt.fields {
				assert.True(t, v.HasField(f))
			}
			assert.False(t, v.HasField("missing"))

			if tt.wantErr {
				assert.Error(t, v.ToError())
			} else {
				assert.NoError(t, v.ToError())
			}
		})
	}
}

func TestValidationError_IsValidation(t *testing.T) {
	v := NewValidationError()
	v.AddFieldError("name", "required")
	err := fmt.Errorf("builder: %w", v.ToError())

	assert.True(t, errors.Is(err, ErrValidation))
	assert.False(t, errors.Is(err, ErrPersistence))

	var verr *ValidationError
	assert.True(t, As(err, &verr))
	assert.Equal(t, []string{"required"}, verr.Fields["name"])
}
