package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"PATIENT", "DOCTOR", "ADMIN"} {
		role, ok := ParseRole(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, Role(valid), role)
	}

	for _, invalid := range []string{"", "patient", "NURSE", "Doctor"} {
		_, ok := ParseRole(invalid)
		assert.False(t, ok, invalid)
	}
}

func TestDisplayNames(t *testing.T) {
	d := Doctor{FirstName: "Maya", LastName: "Lindgren"}
	assert.Equal(t, "Dr. Maya Lindgren", d.DisplayName())

	p := Patient{FirstName: "Jonas", LastName: "Berg"}
	assert.Equal(t, "Jonas Berg", p.DisplayName())
}
