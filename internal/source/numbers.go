package source

import (
	"strconv"
	"strings"
)

// decodeNumber decodes a tokenNumber. Accepted forms are decimal, "$1F",
// "0x1F", "1FH" (which must start with a digit) and "%101".
func decodeNumber(text string) (int64, error) {
	digits, base := text, 10
	switch {
	case strings.HasPrefix(text, "$"):
		digits, base = text[1:], 16
	case strings.HasPrefix(text, "%"):
		digits, base = text[1:], 2
	case len(text) > 2 && text[0] == '0' && (text[1] == 'x' || text[1] == 'X'):
		digits, base = text[2:], 16
	case len(text) > 1 && (text[len(text)-1] == 'h' || text[len(text)-1] == 'H'):
		digits, base = text[:len(text)-1], 16
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, &strconv.NumError{Func: "decodeNumber", Num: text, Err: err.(*strconv.NumError).Err}
	}
	return int64(v), nil
}
