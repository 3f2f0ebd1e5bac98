package validator

import "testing"

type sample struct {
	Message string `validate:"required,notblank,max=10"`
	Status  string `validate:"omitempty,oneof=pending accepted"`
}

func TestValidate(t *testing.T) {
	v := New()

	if err := v.Validate(&sample{Message: "hello"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(&sample{Message: "   "}); err == nil {
		t.Fatal("expected blank message to fail")
	}
	if err := v.Validate(&sample{Message: "hello", Status: "archived"}); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}
