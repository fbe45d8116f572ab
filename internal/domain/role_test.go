package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, want := range []Role{RoleRider, RoleDriver, RoleCompany, RoleAdmin} {
		got, err := ParseRole(want.String())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("driver")
	assert.Error(t, err, "roles are case sensitive")
	_, err = ParseRole("")
	assert.Error(t, err)
}
