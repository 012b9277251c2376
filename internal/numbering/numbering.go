// Package numbering renders counters in the ODF number formats used by outline and list styles.
package numbering

import (
	"strconv"
	"strings"
)

// Format codes as they appear in style:num-format.
const (
	FormatNone       = ""
	FormatDecimal    = "1"
	FormatLowerAlpha = "a"
	FormatUpperAlpha = "A"
	FormatLowerRoman = "i"
	FormatUpperRoman = "I"
)

// Format renders value in the given format. Unknown format codes render as decimal,
// and so do values the alphabetic and roman schemes cannot express (zero or negative).
//
// letterSync only affects alphabetic formats: with it, 27 renders "aa", 28 "bb";
// without it the sequence continues "aa", "ab" like spreadsheet columns.
func Format(value int, format string, letterSync bool) string {
	switch format {
	case FormatNone:
		return ""
	case FormatLowerAlpha, FormatUpperAlpha:
		if value < 1 {
			return strconv.Itoa(value)
		}
		s := alpha(value, letterSync)
		if format == FormatUpperAlpha {
			return strings.ToUpper(s)
		}
		return s
	case FormatLowerRoman, FormatUpperRoman:
		if value < 1 {
			return strconv.Itoa(value)
		}
		s := roman(value)
		if format == FormatLowerRoman {
			return strings.ToLower(s)
		}
		return s
	}
	return strconv.Itoa(value)
}

func alpha(value int, letterSync bool) string {
	if letterSync {
		n := value - 1
		return strings.Repeat(string(rune('a'+n%26)), n/26+1)
	}
	var buf []byte
	for value > 0 {
		value--
		buf = append(buf, byte('a'+value%26))
		value /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var romanTable = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

func roman(value int) string {
	var sb strings.Builder
	for _, r := range romanTable {
		for value >= r.value {
			sb.WriteString(r.symbol)
			value -= r.value
		}
	}
	return sb.String()
}
