package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("jenna"))
	assert.True(t, ValidUsername("jenna42"))
	assert.True(t, ValidUsername("007"))

	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("ab"))
	assert.False(t, ValidUsername("Jenna"))
	assert.False(t, ValidUsername("jenna-ortiz"))
	assert.False(t, ValidUsername("jenna ortiz"))
	assert.False(t, ValidUsername("jénna"))
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := RegisterRequest{
		FullName: "Jenna Ortiz",
		Username: "jenna",
		Email:    "jenna@example.com",
		Password: "secret123",
	}
	assert.Empty(t, valid.Validate())

	empty := RegisterRequest{}
	errs := empty.Validate()
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")

	bad := valid
	bad.Username = "Jenna!"
	bad.Email = "not-an-email"
	bad.Password = "short"
	errs = bad.Validate()
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestUpdateProfileRequestValidate(t *testing.T) {
	name := "Jenna Ortiz"
	motto := "hello world"
	req := UpdateProfileRequest{FullName: &name, Motto: &motto}
	assert.Empty(t, req.Validate())

	// Nil fields are untouched, so nothing to validate.
	assert.Empty(t, (&UpdateProfileRequest{}).Validate())

	blank := "   "
	long := strings.Repeat("x", MaxMottoLength+1)
	req = UpdateProfileRequest{FullName: &blank, Motto: &long}
	errs := req.Validate()
	assert.Contains(t, errs, "fullName")
	assert.Contains(t, errs, "motto")

	// The limit counts characters, not bytes.
	multibyte := strings.Repeat("é", MaxMottoLength)
	req = UpdateProfileRequest{Motto: &multibyte}
	assert.Empty(t, req.Validate())

	tooLong := strings.Repeat("é", MaxMottoLength+1)
	req = UpdateProfileRequest{Motto: &tooLong}
	assert.Contains(t, req.Validate(), "motto")
}

func TestJoinWaitlistRequestValidate(t *testing.T) {
	valid := JoinWaitlistRequest{FirstName: "Jenna", Email: "jenna@example.com"}
	assert.Empty(t, valid.Validate())

	errs := (&JoinWaitlistRequest{}).Validate()
	assert.Contains(t, errs, "firstName")
	assert.Contains(t, errs, "email")

	bad := JoinWaitlistRequest{FirstName: "Jenna", Email: "nope"}
	assert.Contains(t, bad.Validate(), "email")
}
