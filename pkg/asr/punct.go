package asr

import "strings"

// punctuationRunes 中英文标点集合，识别文本的清理基准
var punctuationRunes = []rune{
	'。', '，', '！', '？', '、', '；', '：', '“', '”',
	'.', ',', '!', '?', ';', ':', '"', '\'',
	'（', '）', '(', ')', '【', '】', '[', ']',
	'《', '》', '<', '>', '—', '…', '·',
}

var (
	trailingPunctuation   = makeRuneSet(punctuationRunes)
	everywherePunctuation = makeRuneSet(append(punctuationRunes[:len(punctuationRunes):len(punctuationRunes)], '‘', '’'))
)

func makeRuneSet(runes []rune) map[rune]struct{} {
	set := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		set[r] = struct{}{}
	}
	return set
}

// StripTrailingPunctuation removes punctuation from the end of the text,
// popping runes until a non-punctuation rune is reached.
func StripTrailingPunctuation(text string) string {
	runes := []rune(text)
	for len(runes) > 0 {
		if _, ok := trailingPunctuation[runes[len(runes)-1]]; !ok {
			break
		}
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// StripPunctuation removes punctuation at any position in the text. The set
// additionally covers the curly single quotes U+2018 and U+2019.
func StripPunctuation(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if _, ok := everywherePunctuation[r]; ok {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
