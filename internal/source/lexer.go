package source

import (
	"errors"
	"fmt"
)

// lexLine splits one source line into tokens. A ';' outside quotes starts a
// comment which runs to the end of the line.
//
// On error, col is the 1-based column of the offending byte.
func lexLine(line string) (tokens []token, col uint32, err error) {
	end := len(line)
	for i := 0; i < end; {
		b := line[i]
		col = uint32(i + 1)

		if b == ' ' || b == '\t' || b == '\r' { // fast path ASCII whitespace
			i++
			continue
		}
		if b == ';' {
			break
		}
		if b >= 0x80 {
			return nil, col, fmt.Errorf("unexpected byte 0x%x", b)
		}

		start := i
		switch firstTokenByte[b] {
		case tokenIdent:
			for i++; i < end && identChar(line[i]); i++ {
			}
			tokens = append(tokens, token{tokenIdent, line[start:i], col})
		case tokenNumber:
			i++
			if b == '%' && (i == end || (line[i] != '0' && line[i] != '1')) {
				// modulo is not an operator here, so a lone '%' is invalid.
				return nil, col, errors.New("expected binary digits after '%'")
			}
			for ; i < end && identChar(line[i]); i++ {
			}
			tokens = append(tokens, token{tokenNumber, line[start:i], col})
		case tokenHere:
			i++
			if i < end && isHexDigit(line[i]) {
				for ; i < end && identChar(line[i]); i++ {
				}
				tokens = append(tokens, token{tokenNumber, line[start:i], col})
			} else {
				tokens = append(tokens, token{tokenHere, "$", col})
			}
		case tokenChar, tokenString:
			quote := b
			for i++; i < end && line[i] != quote; i++ {
			}
			if i == end {
				return nil, col, fmt.Errorf("missing closing %c", quote)
			}
			typ := firstTokenByte[b]
			text := line[start+1 : i]
			if typ == tokenChar && len(text) != 1 {
				return nil, col, fmt.Errorf("character constant must be one byte: '%s'", text)
			}
			tokens = append(tokens, token{typ, text, col})
			i++
		case tokenPunct:
			i++
			if (b == '<' || b == '>') && i < end && line[i] == b {
				i++
			}
			tokens = append(tokens, token{tokenPunct, line[start:i], col})
		default:
			return nil, col, fmt.Errorf("unexpected character '%c'", b)
		}
	}
	return tokens, col, nil
}

func isHexDigit(b byte) bool {
	return '0' <= b && b <= '9' || 'a' <= b && b <= 'f' || 'A' <= b && b <= 'F'
}
