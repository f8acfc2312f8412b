// Package cipher implements the prime keyed, position dependent substitution
// used by PrimeSecure. It is a toy and offers no confidentiality.
package cipher

import (
	"strings"

	"github.com/Felo0o0/PrimeSecure/blame"
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// punctuationIndex maps every ASCII punctuation byte to its slot in punctuation, -1 otherwise.
var punctuationIndex = func() [128]int {
	var idx [128]int
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(punctuation); i++ {
		idx[punctuation[i]] = i
	}
	return idx
}()

// Operation selects the direction of the transform.
type Operation string

const (
	Encrypt Operation = "encrypt"
	Decrypt Operation = "decrypt"
)

// String returns the string representation of the Operation.
func (o Operation) String() string {
	return string(o)
}

// ParseOperation accepts "encrypt" or "decrypt" in any case.
func ParseOperation(s string) (Operation, error) {
	switch Operation(strings.ToLower(strings.TrimSpace(s))) {
	case Encrypt:
		return Encrypt, nil
	case Decrypt:
		return Decrypt, nil
	}
	return "", blame.UnknownOperationError(s)
}

// Inverse returns the operation that undoes o.
func (o Operation) Inverse() Operation {
	if o == Encrypt {
		return Decrypt
	}
	return Encrypt
}

// Apply runs o over text whose first rune sits at absolute position offset.
func (o Operation) Apply(text string, key, offset int) string {
	if o == Decrypt {
		return DecryptText(text, key, offset)
	}
	return EncryptText(text, key, offset)
}

// Shift is the rotation applied at absolute position p.
func Shift(key, position int) int {
	return mod(key, 26) + mod(position, 5)
}

// EncryptText shifts every rune forward. offset is the absolute position of text[0].
func EncryptText(text string, key, offset int) string {
	return transform(text, key, offset, 1)
}

// DecryptText is the exact inverse of EncryptText for the same key and offset.
func DecryptText(text string, key, offset int) string {
	return transform(text, key, offset, -1)
}

func transform(text string, key, offset, direction int) string {
	if text == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(text))

	pos := offset
	for _, r := range text {
		sb.WriteRune(shiftRune(r, direction*Shift(key, pos)))
		pos++
	}
	return sb.String()
}

func shiftRune(r rune, shift int) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + rune(mod(int(r-'a')+shift, 26))
	case r >= 'A' && r <= 'Z':
		return 'A' + rune(mod(int(r-'A')+shift, 26))
	case r >= '0' && r <= '9':
		return '0' + rune(mod(int(r-'0')+shift, 10))
	case r < 128 && punctuationIndex[r] >= 0:
		// punctuation moves by shift%5 inside its own set
		step := shift % 5
		return rune(punctuation[mod(punctuationIndex[r]+step, len(punctuation))])
	default:
		return r
	}
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
