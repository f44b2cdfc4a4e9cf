package texprinter

import (
	"strings"

	"github.com/rivo/uniseg"
)

// IconMode selects what happens to emoji and other pictographs in PDF text,
// which the core fonts cannot draw.
type IconMode int

const (
	// IconModeStrip replaces every pictograph with a space.
	IconModeStrip IconMode = iota
	// IconModeText replaces known pictographs with a text badge such as
	// "[like]" and unknown ones with "[icon]".
	IconModeText
)

// iconBadges maps emoji/icons to semantic text replacements
var iconBadges = map[rune]string{
	'✅': "[correct]",
	'❌': "[incorrect]",
	'⚠': "[warning]",
	'ℹ': "[info]",
	'🛑': "[stop]",
	'✔': "[check]",

	'🚀': "[launch]",
	'🔍': "[search]",
	'🔧': "[fix]",
	'🛠': "[tools]",

	'💡': "[idea]",
	'🎯': "[target]",
	'🏆': "[achievement]",
	'📝': "[note]",
	'📌': "[pin]",
	'🔗': "[link]",

	'🎉': "[celebration]",
	'👍': "[like]",
	'👎': "[dislike]",
	'😀': "[happy]",
	'😢': "[sad]",
	'👌': "[ok]",
	'🦆': "[duck]",
}

// pictograph reports whether a grapheme cluster should not reach the core
// fonts: anything outside the BMP, keycap sequences and the dingbat blocks.
func pictograph(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	for _, r := range runes {
		if r > 0xFFFF || r == 0x20E3 {
			return true
		}
	}
	if _, ok := iconBadges[runes[0]]; ok {
		return true
	}
	r := runes[0]
	// Miscellaneous Symbols and Dingbats
	return r >= 0x2600 && r <= 0x27BF
}

// replaceIcons rewrites every pictograph of s according to mode. Variation
// selectors left on their own are dropped.
func replaceIcons(s string, mode IconMode) string {
	var b strings.Builder
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		runes := gr.Runes()
		switch {
		case pictograph(runes):
			if mode == IconModeText {
				badge, ok := iconBadges[runes[0]]
				if !ok {
					badge = "[icon]"
				}
				b.WriteString(badge)
			} else {
				b.WriteByte(' ')
			}
		case len(runes) == 1 && runes[0] >= 0xFE00 && runes[0] <= 0xFE0F:
		default:
			b.WriteString(gr.Str())
		}
	}
	return b.String()
}
