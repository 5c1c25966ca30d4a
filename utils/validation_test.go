package utils

import "testing"

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"9876543210",
		"+919876543210",
		"98765 43210",
		"98-7654-3210",
		"(987) 654-3210",
	}
	for _, p := range valid {
		if !ValidatePhone(p) {
			t.Errorf("expected %q to be valid", p)
		}
	}

	invalid := []string{
		"",
		"12345",
		"0123456789",
		"abcdefghij",
		"+1234567890123456",
	}
	for _, p := range invalid {
		if ValidatePhone(p) {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}
