package errors

import (
	"strings"
	"testing"
)

func TestDataErrorWrapsSentinel(t *testing.T) {
	err := NewDataError("bars", "ACME", "no bars stored", ErrSymbolNotFound)
	if !Is(err, ErrSymbolNotFound) {
		t.Error("DataError should unwrap to its sentinel")
	}
	msg := err.Error()
	for _, part := range []string{"bars", "ACME", "no bars stored"} {
		if !strings.Contains(msg, part) {
			t.Errorf("message %q missing %q", msg, part)
		}
	}

	var de *DataError
	if !As(err, &de) || de.Symbol != "ACME" {
		t.Errorf("As(DataError) = %+v", de)
	}
}

func TestModelErrorMessages(t *testing.T) {
	plain := NewModelError("dcf", "growth rate at or above discount rate", nil)
	if !strings.Contains(plain.Error(), "dcf") {
		t.Errorf("message %q missing the model name", plain.Error())
	}
	if plain.Unwrap() != nil {
		t.Error("nil cause should unwrap to nil")
	}

	wrapped := NewModelError("ddm", "diverges", ErrDivergentModel)
	if !Is(wrapped, ErrDivergentModel) {
		t.Error("ModelError should unwrap to its cause")
	}
}

func TestWrapPreservesNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Error("wrapping nil should stay nil")
	}
	if Wrapf(nil, "context %d", 1) != nil {
		t.Error("wrapping nil should stay nil")
	}

	err := Wrapf(ErrDataInsufficient, "loading %s", "ACME")
	if !Is(err, ErrDataInsufficient) {
		t.Error("Wrapf should keep the chain intact")
	}
	if !strings.Contains(err.Error(), "loading ACME") {
		t.Errorf("message = %q", err.Error())
	}
}
