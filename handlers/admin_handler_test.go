package handlers

import (
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuperAdminPayloadNormalize(t *testing.T) {
	p := superAdminPayload{
		Name:  "  Root   Admin ",
		Email: " Root@Example.COM ",
	}
	p.normalize()
	assert.Equal(t, "Root Admin", p.Name)
	assert.Equal(t, "root@example.com", p.Email)
}

func TestSuperAdminPayloadValidation(t *testing.T) {
	v := validator.New()

	ok := superAdminPayload{Name: "Root Admin", Email: "root@example.com"}
	assert.NoError(t, v.Struct(&ok))

	withPassword := superAdminPayload{Name: "Root Admin", Email: "root@example.com", Password: "longenough"}
	assert.NoError(t, v.Struct(&withPassword))

	bad := superAdminPayload{Name: "", Email: "not-an-email", Password: "short"}
	err := v.Struct(&bad)
	require.Error(t, err)
	fields := validationFields(err)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestSuperAdminDeleteGuard(t *testing.T) {
	// removing another account while two remain is fine
	assert.Nil(t, superAdminDeleteGuard(2, 1, 2))

	he := superAdminDeleteGuard(1, 1, 3)
	require.NotNil(t, he, "own account must be protected")
	assert.Equal(t, http.StatusConflict, he.Code)

	he = superAdminDeleteGuard(2, 1, 1)
	require.NotNil(t, he, "last remaining account must be protected")
	assert.Equal(t, http.StatusConflict, he.Code)
}
