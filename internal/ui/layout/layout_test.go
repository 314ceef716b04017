package layout

import (
	"strings"
	"testing"
)

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("Dashboard", "ada@example.com", false, 100)
	if !strings.Contains(h, "Dashboard") || !strings.Contains(h, "ada@example.com") {
		t.Errorf("header missing title or user:\n%s", h)
	}
	if strings.Contains(h, "admin") {
		t.Error("learner header should not carry the admin badge")
	}

	if !strings.Contains(RenderHeader("Admin", "root@example.com", true, 100), "  admin") {
		t.Error("admin badge missing")
	}
	if strings.Contains(RenderHeader("Log In", "", false, 100), "@") {
		t.Error("logged-out header should not show a user")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) || !IsTooSmall(MinWidth, MinHeight-1) {
		t.Error("below minimum should be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should fit")
	}
}

func TestRenderFooter(t *testing.T) {
	f := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 60)
	if !strings.Contains(f, "Esc") || !strings.Contains(f, "Back") {
		t.Errorf("footer = %q", f)
	}
}
