// Package sanitize removes invisible characters and normalizes
// look-alike glyphs in text extracted from uploaded resumes.
package sanitize

// ZeroWidthChars lists the invisible code points stripped from extracted
// text, in detection order. Each entry present in the input raises one
// ZERO_WIDTH_CHARS_FOUND flag.
var ZeroWidthChars = []rune{
	'\u200b', // zero width space
	'\u200c', // zero width non-joiner
	'\u200d', // zero width joiner
	'\u2060', // word joiner
	'\ufeff', // zero width no-break space
}

// HomoglyphMapping maps one confusable character to its Latin look-alike.
type HomoglyphMapping struct {
	From rune
	To   rune
}

// Homoglyphs is the table of Cyrillic characters that render identically to
// Latin characters. Order matters: flags are appended in table order, so the
// table is a slice rather than a map.
var Homoglyphs = []HomoglyphMapping{
	{'\u0430', 'a'}, {'\u0435', 'e'}, {'\u043e', 'o'}, {'\u0440', 'p'}, {'\u0441', 'c'},
	{'\u0443', 'y'}, {'\u0445', 'x'}, {'\u0410', 'A'}, {'\u0412', 'B'}, {'\u0415', 'E'},
	{'\u041a', 'K'}, {'\u041c', 'M'}, {'\u041d', 'H'}, {'\u041e', 'O'}, {'\u0420', 'P'},
	{'\u0421', 'C'}, {'\u0422', 'T'}, {'\u0425', 'X'},
}
