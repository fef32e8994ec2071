package utils

import (
	"strings"
	"testing"
)

func withProduction(t *testing.T, production bool) {
	t.Helper()
	prev := IsProduction
	SetProduction(production)
	t.Cleanup(func() { SetProduction(prev) })
}

func TestMaskStringProduction(t *testing.T) {
	withProduction(t, true)

	in := "user sam@uni.edu spent $45.50 on card 4111 1111 1111 1111 budget 3f2b8c1e-9a4d-4c1b-8e2f-0a1b2c3d4e5f"
	out := MaskString(in)

	for _, leaked := range []string{"sam@uni.edu", "45.50", "4111 1111", "9a4d-4c1b"} {
		if strings.Contains(out, leaked) {
			t.Errorf("masked output still contains %q: %s", leaked, out)
		}
	}
	if !strings.Contains(out, "3f2b8c1e...") {
		t.Errorf("uuid should keep its 8-char prefix: %s", out)
	}
}

func TestMaskingDisabledInDevelopment(t *testing.T) {
	withProduction(t, false)

	in := "sam@uni.edu $12"
	if got := MaskString(in); got != in {
		t.Errorf("MaskString = %q, want unchanged", got)
	}
	if got := MaskAmount(12.5); got != "12.50" {
		t.Errorf("MaskAmount = %q", got)
	}
	if got := MaskID("3f2b8c1e-9a4d"); got != "3f2b8c1e-9a4d" {
		t.Errorf("MaskID = %q", got)
	}
}

func TestMaskHelpersProduction(t *testing.T) {
	withProduction(t, true)

	if got := MaskAmount(12.5); got != "***" {
		t.Errorf("MaskAmount = %q", got)
	}
	if got := MaskID("short"); got != "***" {
		t.Errorf("MaskID short = %q", got)
	}
	if got := MaskID("3f2b8c1e-9a4d"); got != "3f2b8c1e..." {
		t.Errorf("MaskID = %q", got)
	}
	if got := MaskEmail("sam@uni.edu"); got != "***@***.***" {
		t.Errorf("MaskEmail = %q", got)
	}
}
