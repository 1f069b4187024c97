package capability

import (
	"errors"
	"testing"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	payload, err := extractJSONObject(`Sure thing! {"equipment": ["barbell"]} Enjoy.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != `{"equipment": ["barbell"]}` {
		t.Fatalf("unexpected payload %q", payload)
	}

	// Nested braces: everything between the outermost pair survives.
	payload, err = extractJSONObject(`{"a": {"b": 1}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != `{"a": {"b": 1}}` {
		t.Fatalf("unexpected payload %q", payload)
	}

	if _, err := extractJSONObject("no braces here"); !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	if _, err := extractJSONObject("} reversed {"); err == nil {
		t.Fatal("expected an error for reversed braces")
	}
}
