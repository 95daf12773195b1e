package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEligible(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"My BMI is 27", true},
		{"my glucose came back high", true},
		{"do I have diabetes?", true},
		{"I've been really thirsty lately", true},
		{"Blood Pressure is 150", true},
		{"What's the weather today?", false},
		{"tell me a joke", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.message))
		})
	}
}
