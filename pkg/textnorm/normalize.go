// Package textnorm 提供类型名、标题和查询词的归一化。
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold 去掉首尾空白并转小写，用于类型（genre）比较。
// 例如 " Fantasy " -> "fantasy"
func Fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FoldSet 把一组字符串归一化为集合，空串被忽略。
func FoldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if f := Fold(v); f != "" {
			set[f] = struct{}{}
		}
	}
	return set
}

// StripAccents 去掉变音符号。
// 例如 "Café" -> "Cafe"
func StripAccents(s string) string {
	if s == "" {
		return s
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Search 是搜索打分使用的归一化：去变音、小写、只保留字母数字空格和点、合并空白。
func Search(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(StripAccents(s))
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '.':
			b.WriteRune(r)
			space = false
		case unicode.IsSpace(r):
			if !space && b.Len() > 0 {
				b.WriteByte(' ')
				space = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
