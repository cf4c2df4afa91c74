package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func TestRenderModalBox_UsesLightBackground_WhenThemeForcedLight(t *testing.T) {
	oldProfile := lipgloss.ColorProfile()
	oldBG := lipgloss.HasDarkBackground()
	lipgloss.SetColorProfile(termenv.ANSI256)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(oldProfile)
		lipgloss.SetHasDarkBackground(oldBG)
	})

	t.Setenv("MAKLUMAT_TUI_THEME", "light")
	t.Setenv("MAKLUMAT_TUI_DARKBG", "")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected HasDarkBackground=false after forcing light theme")
	}

	out := renderModalBox(80, "Title", "Body")
	if !strings.Contains(out, "48;5;255") {
		t.Fatalf("expected modal to include light background (48;5;255); got: %q", out)
	}
}

func TestApplyThemePreference_COLORFGBG(t *testing.T) {
	oldBG := lipgloss.HasDarkBackground()
	t.Cleanup(func() { lipgloss.SetHasDarkBackground(oldBG) })

	t.Setenv("MAKLUMAT_TUI_THEME", "")
	t.Setenv("MAKLUMAT_TUI_DARKBG", "")

	t.Setenv("COLORFGBG", "15;0")
	applyThemePreference()
	if !lipgloss.HasDarkBackground() {
		t.Fatalf("expected dark background for COLORFGBG=15;0")
	}

	t.Setenv("COLORFGBG", "0;15")
	applyThemePreference()
	if lipgloss.HasDarkBackground() {
		t.Fatalf("expected light background for COLORFGBG=0;15")
	}
}

func TestClampLine(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "short", width: 10, want: "short"},
		{in: "abcdefghij", width: 5, want: "abcd…\x1b[0m"},
		{in: "abc", width: 0, want: ""},
	}
	for _, tt := range tests {
		if got := clampLine(tt.in, tt.width); got != tt.want {
			t.Fatalf("clampLine(%q,%d)=%q want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
