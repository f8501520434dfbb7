package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type priced struct {
	Amount string `validate:"price"`
}

func TestPriceRule(t *testing.T) {
	v := New()

	tests := []struct {
		amount string
		valid  bool
	}{
		{"100", true},
		{"99.99", true},
		{"0", true},
		{"-1", false},
		{"-0.01", false},
		{"abc", false},
		{"", false},
	}
	for _, test := range tests {
		err := v.Struct(priced{Amount: test.amount})
		if test.valid {
			assert.NoError(t, err, "amount=%q should pass", test.amount)
		} else {
			assert.Error(t, err, "amount=%q should fail", test.amount)
		}
	}
}
