// Package password provides pure password generation primitives.
// Randomness is supplied by the caller as raw unsigned 32-bit draws so
// the mapping stays deterministic and testable.
package password

import (
	"errors"
	"math"
	"strings"
)

// Character classes.
const (
	Uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Lowercase = "abcdefghijklmnopqrstuvwxyz"
	Digits    = "0123456789"
	Symbols   = "!@#$%^&*()-_=+[]{};:,.<>?"

	// Ambiguous characters excluded on request.
	Ambiguous = "il1Lo0O"
)

// Length and batch bounds.
const (
	MinLength = 4
	MaxLength = 128
	MaxCount  = 100
)

// ErrEmptyCharset is returned when the toggle combination leaves no
// characters to draw from.
var ErrEmptyCharset = errors.New("character set is empty")

// Options selects the character classes for generation (value type).
type Options struct {
	Length           int
	Uppercase        bool
	Lowercase        bool
	Digits           bool
	Symbols          bool
	ExcludeAmbiguous bool
}

// Strength labels, weakest to strongest.
var strengthLabels = []string{"Very weak", "Weak", "Fair", "Strong", "Very strong"}

// Charset builds the character set for the given options.
func Charset(opts Options) (string, error) {
	var b strings.Builder
	if opts.Uppercase {
		b.WriteString(Uppercase)
	}
	if opts.Lowercase {
		b.WriteString(Lowercase)
	}
	if opts.Digits {
		b.WriteString(Digits)
	}
	if opts.Symbols {
		b.WriteString(Symbols)
	}

	charset := b.String()
	if opts.ExcludeAmbiguous {
		var filtered strings.Builder
		for _, c := range charset {
			if !strings.ContainsRune(Ambiguous, c) {
				filtered.WriteRune(c)
			}
		}
		charset = filtered.String()
	}

	if charset == "" {
		return "", ErrEmptyCharset
	}
	return charset, nil
}

// Generate maps one draw per position into the charset via modulo.
// len(draws) determines the password length.
func Generate(charset string, draws []uint32) string {
	var b strings.Builder
	b.Grow(len(draws))
	for _, d := range draws {
		b.WriteByte(charset[d%uint32(len(charset))])
	}
	return b.String()
}

// Entropy returns log2(charsetSize^length) in bits.
// Monotonically increasing in both length and charset size.
func Entropy(charsetSize, length int) float64 {
	return float64(length) * math.Log2(float64(charsetSize))
}

// Strength buckets an entropy value into a qualitative label.
func Strength(entropyBits float64) string {
	switch {
	case entropyBits < 28:
		return strengthLabels[0]
	case entropyBits < 36:
		return strengthLabels[1]
	case entropyBits < 60:
		return strengthLabels[2]
	case entropyBits < 128:
		return strengthLabels[3]
	default:
		return strengthLabels[4]
	}
}
