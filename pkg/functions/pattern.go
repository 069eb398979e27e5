package functions

import (
	"strings"
)

// GoLayout converts a SimpleDateFormat pattern such as "yyyy-MM-dd HH:mm:ss"
// into the equivalent Go time layout.
//
// Letters without a Go counterpart (era, week in year, day in year) are
// dropped. Quoted text ('at', '' for a quote) is copied verbatim and may be
// misread by the time package if it happens to contain a layout token.
func GoLayout(pattern string) string {
	var b strings.Builder
	b.Grow(len(pattern) + 4)

	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		ch := runes[i]

		if ch == '\'' {
			i++
			if i < len(runes) && runes[i] == '\'' {
				b.WriteRune('\'')
				i++
				continue
			}
			for i < len(runes) {
				if runes[i] == '\'' {
					if i+1 < len(runes) && runes[i+1] == '\'' {
						b.WriteRune('\'')
						i += 2
						continue
					}
					i++
					break
				}
				b.WriteRune(runes[i])
				i++
			}
			continue
		}

		if !isPatternLetter(ch) {
			b.WriteRune(ch)
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == ch {
			n++
		}
		b.WriteString(layoutFor(ch, n, lastRune(b.String())))
		i += n
	}

	return b.String()
}

// layoutFor returns the Go layout of a run of n pattern letters ch.
func layoutFor(ch rune, n int, prev rune) string {
	switch ch {
	case 'y', 'Y', 'u':
		if n == 2 {
			return "06"
		}
		return "2006"
	case 'M', 'L':
		switch n {
		case 1:
			return "1"
		case 2:
			return "01"
		case 3:
			return "Jan"
		default:
			return "January"
		}
	case 'd':
		if n == 1 {
			return "2"
		}
		return "02"
	case 'E':
		if n <= 3 {
			return "Mon"
		}
		return "Monday"
	case 'H', 'k':
		return "15"
	case 'h', 'K':
		if n == 1 {
			return "3"
		}
		return "03"
	case 'm':
		if n == 1 {
			return "4"
		}
		return "04"
	case 's':
		if n == 1 {
			return "5"
		}
		return "05"
	case 'S':
		if prev == '.' || prev == ',' {
			return strings.Repeat("0", n)
		}
		return ""
	case 'a':
		return "PM"
	case 'z':
		return "MST"
	case 'Z':
		return "-0700"
	case 'X':
		switch n {
		case 1:
			return "Z07"
		case 2:
			return "Z0700"
		default:
			return "Z07:00"
		}
	default:
		return ""
	}
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func lastRune(s string) rune {
	if s == "" {
		return 0
	}
	r := []rune(s)
	return r[len(r)-1]
}
