package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentPayloadNormalize(t *testing.T) {
	p := studentPayload{
		Name:   "  Ana   Marie   Reyes ",
		Email:  " Ana.Reyes@Example.COM ",
		Gender: " Male ",
	}
	p.normalize()
	assert.Equal(t, "Ana Marie Reyes", p.Name)
	assert.Equal(t, "ana.reyes@example.com", p.Email)
	assert.Equal(t, "male", p.Gender)
}

func TestValidateStudentAcceptsTypicalRecord(t *testing.T) {
	h, w := 120.5, 25.0
	p := studentPayload{
		Name:      "José dela Cruz-Santos Jr.",
		Email:     "jose@example.com",
		BirthDate: "2017-06-15",
		Gender:    "male",
		Height:    &h,
		Weight:    &w,
	}
	p.normalize()
	assert.Empty(t, validateStudent(&p))
}

func TestValidateStudentRejectsBadFields(t *testing.T) {
	tooTall := 300.0
	tooLight := 1.0
	p := studentPayload{
		Name:      "Student #1",
		Email:     "not-an-email",
		BirthDate: "15-06-2017",
		Gender:    "other",
		Height:    &tooTall,
		Weight:    &tooLight,
	}
	p.normalize()
	errs := validateStudent(&p)
	for _, field := range []string{"name", "email", "birth_date", "gender", "height", "weight"} {
		assert.Contains(t, errs, field)
	}
}

func TestValidateStudentOptionalFieldsMayBeEmpty(t *testing.T) {
	p := studentPayload{Name: "Ben Santos"}
	p.normalize()
	assert.Empty(t, validateStudent(&p))
}

func TestValidateStudentRequiresName(t *testing.T) {
	p := studentPayload{}
	p.normalize()
	errs := validateStudent(&p)
	require.Contains(t, errs, "name")
}

func TestAtoiOr(t *testing.T) {
	assert.Equal(t, 5, atoiOr("5", 1))
	assert.Equal(t, 1, atoiOr("", 1))
	assert.Equal(t, 1, atoiOr("abc", 1))
}

func TestUintParam(t *testing.T) {
	n, ok := uintParam("42")
	require.True(t, ok)
	assert.Equal(t, uint(42), n)

	_, ok = uintParam("-1")
	assert.False(t, ok)
	_, ok = uintParam("abc")
	assert.False(t, ok)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("2017-06-15")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, 2017, d.Year())

	d, err = parseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = parseDate("June 15 2017")
	assert.Error(t, err)
}

func TestRandomPasswordLength(t *testing.T) {
	p := randomPassword(12)
	assert.Len(t, p, 12)
	assert.NotEqual(t, p, randomPassword(12))
}
