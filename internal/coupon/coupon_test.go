package coupon

import "testing"

func TestValid_WhenCodeOnList_ShouldAccept(t *testing.T) {
	if !Valid("PANION-A9X4L2") {
		t.Error("expected listed code to validate")
	}
}

func TestValid_WhenCodeHasCaseAndWhitespace_ShouldCanonicalize(t *testing.T) {
	if !Valid("  panion-ht72qz  ") {
		t.Error("expected lowercase padded code to validate")
	}
}

func TestValid_WhenCodeUnknown_ShouldReject(t *testing.T) {
	for _, code := range []string{"PANION-000000", "NOTACODE", ""} {
		if Valid(code) {
			t.Errorf("expected %q to be rejected", code)
		}
	}
}

func TestCanonical_WhenMixedInput_ShouldUppercaseAndTrim(t *testing.T) {
	if got := Canonical(" panion-a9x4l2\n"); got != "PANION-A9X4L2" {
		t.Errorf("expected canonical form, got %q", got)
	}
}
