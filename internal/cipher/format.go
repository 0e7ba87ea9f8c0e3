package cipher

import "strings"

const (
	blockSize = 5
	padLetter = 'X'
)

// FormatMessage keeps only ASCII letters, uppercases them and splits them into
// space separated blocks of five, padding the last block with X. Input with no
// letters formats to "".
func FormatMessage(raw string) string {
	letters := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case ch >= 'A' && ch <= 'Z':
			letters = append(letters, ch)
		case ch >= 'a' && ch <= 'z':
			letters = append(letters, ch-'a'+'A')
		}
	}
	if len(letters) == 0 {
		return ""
	}

	for len(letters)%blockSize != 0 {
		letters = append(letters, padLetter)
	}
	blocks := len(letters) / blockSize

	var b strings.Builder
	b.Grow(blocks*blockSize + blocks - 1)
	for i := 0; i < blocks; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.Write(letters[i*blockSize : (i+1)*blockSize])
	}
	return b.String()
}

// LetterCount is the number of ASCII letters in s.
func LetterCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
			n++
		}
	}
	return n
}
