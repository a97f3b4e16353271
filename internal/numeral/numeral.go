package numeral

import (
	"strings"
)

// Script identifies a numeral writing system.
type Script string

const (
	Latin      Script = "latin"
	Eastern    Script = "eastern"
	Devanagari Script = "devanagari"
	Chinese    Script = "chinese"
	Japanese   Script = "japanese"
	Thai       Script = "thai"
	Bengali    Script = "bengali"
)

// Order is the fixed cyclical sequence the big numeral rotates through.
var Order = []Script{Latin, Eastern, Devanagari, Chinese, Japanese, Thai, Bengali}

// digitTable maps digit values to glyphs. Scripts that share 1-9 but
// differ on zero carry a zero override.
type digitTable struct {
	digits  [10]string
	zero    string
	hasZero bool
}

func (t digitTable) glyph(d int) string {
	if d == 0 && t.hasZero {
		return t.zero
	}
	return t.digits[d]
}

func flat(d [10]string) digitTable { return digitTable{digits: d} }

func withZero(zero string, common [9]string) digitTable {
	t := digitTable{zero: zero, hasZero: true}
	copy(t.digits[1:], common[:])
	return t
}

var cjkCommon = [9]string{"一", "二", "三", "四", "五", "六", "七", "八", "九"}

var tables = map[Script]digitTable{
	Eastern:    flat([10]string{"٠", "١", "٢", "٣", "٤", "٥", "٦", "٧", "٨", "٩"}),
	Devanagari: flat([10]string{"०", "१", "२", "३", "४", "५", "६", "७", "८", "९"}),
	Chinese:    withZero("零", cjkCommon),
	Japanese:   withZero("〇", cjkCommon),
	Thai:       flat([10]string{"๐", "๑", "๒", "๓", "๔", "๕", "๖", "๗", "๘", "๙"}),
	Bengali:    flat([10]string{"০", "১", "২", "৩", "৪", "৫", "৬", "৭", "৮", "৯"}),
}

// Format replaces every ASCII digit in base with the glyph of script s.
// Non-digit characters are kept in place. Latin and unknown scripts
// return base unchanged.
func Format(base string, s Script) string {
	table, ok := tables[s]
	if !ok {
		return base
	}
	var b strings.Builder
	b.Grow(len(base) * 3)
	for _, r := range base {
		if r >= '0' && r <= '9' {
			b.WriteString(table.glyph(int(r - '0')))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseScript resolves a script name case-insensitively. Only members of
// Order are accepted.
func ParseScript(name string) (Script, bool) {
	want := Script(strings.ToLower(strings.TrimSpace(name)))
	for _, s := range Order {
		if s == want {
			return s, true
		}
	}
	return "", false
}

// Names lists the script ids in cycle order.
func Names() []string {
	names := make([]string, len(Order))
	for i, s := range Order {
		names[i] = string(s)
	}
	return names
}

// LatinDigits strips everything but ASCII digits from s.
func LatinDigits(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
