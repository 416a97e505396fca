package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID     string `validate:"required"`
	Rarity int    `validate:"min=1,max=5"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{name: "valid", input: sample{ID: "scribe", Rarity: 3}},
		{name: "missing id", input: sample{Rarity: 3}, wantErr: "sample.ID"},
		{name: "rarity too high", input: sample{ID: "x", Rarity: 9}, wantErr: "rule 'max' expected '5'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateValue(t *testing.T) {
	assert.NoError(t, ValidateValue("INTJ", "len=4"))
	assert.Error(t, ValidateValue("INT", "len=4"))
}
