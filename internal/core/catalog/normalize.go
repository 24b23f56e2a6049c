package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// IdentifierSentinel 正規化結果不是以字母開頭時加上的前綴
const IdentifierSentinel = "x"

// combiningDiacritics U+0300–U+036F 組合附加符號
var combiningDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

// Normalize 正規化文字：NFD 分解、移除附加符號、去除非英數字元並轉小寫。
// preserveSpaces 為 true 時，連續空白會換成單一 "_" 並保留下來。
func Normalize(text string, preserveSpaces bool) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(combiningDiacritics)))
	stripped, _, err := transform.String(t, strings.TrimSpace(text))
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	inSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			inSpace = false
		case preserveSpaces && unicode.IsSpace(r):
			if !inSpace {
				b.WriteByte('_')
			}
			inSpace = true
		}
	}
	return b.String()
}

// MakeIdentifierSafe 將標籤轉為可作為識別字的 key，開頭不是字母時補上前綴
func MakeIdentifierSafe(label string) string {
	key := Normalize(label, false)
	for _, r := range key {
		if unicode.IsLetter(r) {
			return key
		}
		break
	}
	return IdentifierSentinel + key
}

func normalizeAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Normalize(v, false)
	}
	return out
}
