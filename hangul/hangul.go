// Package hangul holds the syllable rules of the word chain: extracting the
// syllable a word must be continued with, and the 두음법칙 alternations that
// let a blocked initial syllable be replaced at the start of a word.
package hangul

// alternations maps a word-final syllable to the initial form it may take at
// the start of the next word. The mapping is fixed and one-to-one.
var alternations = map[rune]rune{
	// ㄴ → ㅇ
	'녀': '여',
	'녕': '영',
	'뇨': '요',
	'뉴': '유',
	'니': '이',
	// ㄹ → ㄴ
	'라': '나',
	'락': '낙',
	'란': '난',
	'람': '남',
	'랑': '낭',
	'래': '내',
	'랭': '냉',
	'로': '노',
	'록': '녹',
	'론': '논',
	'롱': '농',
	'뢰': '뇌',
	'루': '누',
	// ㄹ → ㅇ
	'랴': '야',
	'량': '양',
	'려': '여',
	'력': '역',
	'련': '연',
	'렬': '열',
	'렴': '염',
	'령': '영',
	'례': '예',
	'료': '요',
	'룡': '용',
	'류': '유',
	'륙': '육',
	'륜': '윤',
	'률': '율',
	'륭': '융',
	'리': '이',
	'림': '임',
	'립': '입',
}

// LastSyllable returns the final syllable of word, or 0 for an empty word.
func LastSyllable(word string) rune {
	var last rune
	for _, r := range word {
		last = r
	}
	return last
}

// FirstSyllable returns the first syllable of word, or 0 for an empty word.
func FirstSyllable(word string) rune {
	for _, r := range word {
		return r
	}
	return 0
}

// Alternation reports the 두음법칙 counterpart of syllable, if it has one.
func Alternation(syllable rune) (rune, bool) {
	alt, ok := alternations[syllable]
	return alt, ok
}

// ChainMatch reports whether candidate legally continues lastWord: its first
// syllable must equal lastWord's final syllable or that syllable's
// alternation.
func ChainMatch(lastWord, candidate string) bool {
	want := LastSyllable(lastWord)
	got := FirstSyllable(candidate)
	if want == 0 || got == 0 {
		return false
	}
	if got == want {
		return true
	}
	alt, ok := alternations[want]
	return ok && got == alt
}
