package todos

import (
	"strconv"
	"strings"
	"unicode"
)

// Key identifies the todo a get, update or delete refers to. A Key parsed
// from text that holds no number matches nothing.
type Key struct {
	id    int64
	valid bool
}

// KeyOf returns the key for a known id.
func KeyOf(id int64) Key { return Key{id: id, valid: true} }

// ParseKey reads a base-10 integer prefix from s: leading whitespace and a
// sign are allowed and anything after the digits is ignored, so "12abc"
// is 12. No digits, or a value outside int64, yields a key that matches
// nothing.
func ParseKey(s string) Key {
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return Key{}
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return Key{}
	}
	return KeyOf(n)
}

// ID returns the numeric id and whether the key holds one.
func (k Key) ID() (int64, bool) { return k.id, k.valid }

func (k Key) String() string {
	if !k.valid {
		return "NaN"
	}
	return strconv.FormatInt(k.id, 10)
}
