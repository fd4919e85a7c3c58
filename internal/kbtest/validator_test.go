package kbtest

import (
	"strings"
	"testing"
)

func TestValidatorNamesWireFields(t *testing.T) {
	v := newValidator()

	payload := struct {
		Email string `json:"email" validate:"required"`
		Title string `json:"display_title" validate:"required"`
	}{}
	err := v.Validate(&payload)
	if err == nil {
		t.Fatal("expected validation to fail")
	}
	msg := err.Error()
	if !strings.Contains(msg, "email is missing") || !strings.Contains(msg, "display_title is missing") {
		t.Fatalf("messages should name the json fields: %s", msg)
	}
	if strings.Contains(msg, "Email") || strings.Contains(msg, "Title") {
		t.Fatalf("Go field names leaked into the envelope: %s", msg)
	}
}

func TestValidatorDescribesRules(t *testing.T) {
	v := newValidator()

	short := struct {
		Password string `json:"password" validate:"min=8"`
	}{Password: "pw"}
	if err := v.Validate(&short); err == nil || !strings.Contains(err.Error(), "password is too short (minimum 8)") {
		t.Fatalf("min message: %v", err)
	}

	bad := struct {
		Email string `json:"email" validate:"email"`
	}{Email: "not-an-address"}
	if err := v.Validate(&bad); err == nil || !strings.Contains(err.Error(), "email is not a valid email address") {
		t.Fatalf("email message: %v", err)
	}
}
