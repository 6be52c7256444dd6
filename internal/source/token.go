package source

// tokenType is the kind of a token on one source line.
type tokenType byte

const (
	tokenInvalid tokenType = iota
	// tokenIdent is a name: a letter, '_', '.', '@' or '?' followed by the same
	// or digits. Mnemonics, directives, registers, conditions and symbols are all
	// identifiers.
	tokenIdent
	// tokenNumber is an integer: decimal, $hex, 0xhex, hex with an H suffix or
	// %binary.
	tokenNumber
	// tokenChar is a character constant in single quotes, ex. 'A'
	tokenChar
	// tokenString is a byte string in double quotes, ex. "HELLO"
	tokenString
	// tokenPunct is an operator or separator: , # ( ) + - * / & | ^ ~ : = << >>
	tokenPunct
	// tokenHere is '$' standing alone, the current address.
	tokenHere
)

// tokenNames is index-coordinated with tokenType
var tokenNames = [...]string{
	"tokenInvalid",
	"tokenIdent",
	"tokenNumber",
	"tokenChar",
	"tokenString",
	"tokenPunct",
	"tokenHere",
}

// String returns the string name of this token.
func (t tokenType) String() string {
	return tokenNames[t]
}

// token is one lexed token. text is the raw source slice, except for strings
// and characters where it holds the unquoted bytes.
type token struct {
	typ  tokenType
	text string
	// col is the 1-based column of the first byte.
	col uint32
}

// is returns true when the token is the punctuation p.
func (t token) is(p string) bool {
	return t.typ == tokenPunct && t.text == p
}

// constants below help format a somewhat readable lookup table that eases identification of tokens.
const (
	// xx is an invalid token start byte
	xx = tokenInvalid
	// xi is the start of tokenIdent
	xi = tokenIdent
	// xn is the start of tokenNumber
	xn = tokenNumber
	// xc is the start of tokenChar ('\'')
	xc = tokenChar
	// xs is the start of tokenString ('"')
	xs = tokenString
	// xp is the start of tokenPunct
	xp = tokenPunct
	// xh is '$', either tokenHere or a hex tokenNumber
	xh = tokenHere
)

// firstTokenByte is information about the first byte in a token. All token starts are ASCII.
var firstTokenByte = [128]tokenType{
	//   1   2   3   4   5   6   7   8   9   A   B   C   D   E   F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x00-0x0F
	xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, xx, // 0x10-0x1F
	xx, xx, xs, xp, xh, xn, xp, xc, xp, xp, xp, xp, xp, xp, xi, xp, // 0x20-0x2F
	xn, xn, xn, xn, xn, xn, xn, xn, xn, xn, xp, xx, xp, xp, xp, xi, // 0x30-0x3F
	xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, // 0x40-0x4F
	xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xp, xx, xp, xp, xi, // 0x50-0x5F
	xx, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, // 0x60-0x6F
	xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xi, xx, xp, xx, xp, xx, // 0x70-0x7F
}

// identChar returns true for bytes allowed after the first byte of an identifier.
func identChar(b byte) bool {
	switch {
	case 'A' <= b && b <= 'Z', 'a' <= b && b <= 'z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case '_', '.', '@', '?':
		return true
	}
	return false
}
