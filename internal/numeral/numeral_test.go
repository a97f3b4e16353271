package numeral

import (
	"math"
	"testing"
	"unicode/utf8"

	. "github.com/onsi/gomega"
)

func TestFormatLatinIsIdentity(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Format("131", Latin)).To(Equal("131"))
}

func TestFormatScripts(t *testing.T) {
	tests := []struct {
		script Script
		in     string
		want   string
	}{
		{Devanagari, "2025", "२०२५"},
		{Eastern, "2025", "٢٠٢٥"},
		{Thai, "131", "๑๓๑"},
		{Bengali, "907", "৯০৭"},
		{Chinese, "2025", "二零二五"},
		{Japanese, "2025", "二〇二五"},
	}

	for _, tt := range tests {
		t.Run(string(tt.script), func(t *testing.T) {
			g := NewWithT(t)
			g.Expect(Format(tt.in, tt.script)).To(Equal(tt.want))
		})
	}
}

func TestFormatPreservesSeparators(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Format("1,234.5", Devanagari)).To(Equal("१,२३४.५"))
	g.Expect(Format("#-7", Thai)).To(Equal("#-๗"))
}

func TestFormatChineseJapaneseZero(t *testing.T) {
	g := NewWithT(t)
	zh := []rune(Format("10", Chinese))
	ja := []rune(Format("10", Japanese))

	g.Expect(zh).To(HaveLen(2))
	g.Expect(ja).To(HaveLen(2))
	g.Expect(zh[0]).To(Equal(ja[0]))
	g.Expect(zh[1]).NotTo(Equal(ja[1]))
}

func TestFormatUnknownScript(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Format("42", Script("klingon"))).To(Equal("42"))
}

func TestFormatKeepsRuneCount(t *testing.T) {
	for _, s := range Order {
		out := Format("0123456789", s)
		if n := utf8.RuneCountInString(out); n != 10 {
			t.Errorf("%s: expected 10 runes, got %d", s, n)
		}
	}
}

func TestParseScript(t *testing.T) {
	g := NewWithT(t)

	s, ok := ParseScript(" Thai ")
	g.Expect(ok).To(BeTrue())
	g.Expect(s).To(Equal(Thai))

	_, ok = ParseScript("roman")
	g.Expect(ok).To(BeFalse())
}

func TestLatinDigits(t *testing.T) {
	g := NewWithT(t)
	g.Expect(LatinDigits("#20-25!")).To(Equal("2025"))
	g.Expect(LatinDigits("abc")).To(BeEmpty())
}

func TestCurrent(t *testing.T) {
	tests := []struct {
		elapsed float64
		want    Script
	}{
		{0, Order[0]},
		{9.99, Order[0]},
		{10, Order[1]},
		{35, Order[3]},
		{69.9, Order[6]},
		{70, Order[0]},
		{-5, Order[0]},
	}

	for _, tt := range tests {
		if got := Current(tt.elapsed, 10, Order, ""); got != tt.want {
			t.Errorf("elapsed %.2f: expected %s, got %s", tt.elapsed, tt.want, got)
		}
	}
}

func TestCurrentLocked(t *testing.T) {
	g := NewWithT(t)
	for _, elapsed := range []float64{0, 12, 35, 1e6} {
		g.Expect(Current(elapsed, 10, Order, Bengali)).To(Equal(Bengali))
	}
}

func TestCurrentDegenerate(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Current(100, 0, Order, "")).To(Equal(Order[0]))
	g.Expect(Current(100, 10, nil, "")).To(Equal(Latin))
	g.Expect(Current(math.Inf(1), 10, Order, "")).To(Equal(Order[0]))
	g.Expect(Current(1e300, 10, Order, "")).To(BeElementOf(Order))
}
