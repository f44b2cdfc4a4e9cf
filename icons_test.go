package texprinter

import "testing"

func TestReplaceIcons(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		mode     IconMode
		expected string
	}{
		{"strip", "a🦆b👍🏽c", IconModeStrip, "a b c"},
		{"text known", "ok ✅ 🦆", IconModeText, "ok [correct] [duck]"},
		{"text unknown", "x 🧪", IconModeText, "x [icon]"},
		{"variation selector", "⚠️!", IconModeText, "[warning]!"},
		{"keycap", "1️⃣ one", IconModeStrip, "  one"},
		{"plain", "café • naïve", IconModeText, "café • naïve"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := replaceIcons(tc.input, tc.mode); got != tc.expected {
				t.Fatalf("expected %q got %q", tc.expected, got)
			}
		})
	}
}
