package statement

import (
	"encoding/hex"
	"strconv"
	"strings"
	"unicode"
)

// scanTextObjects interprets the text operators of a content stream. Only text
// inside BT ... ET is emitted; positioning operators start a new line.
func scanTextObjects(content []byte) string {
	var (
		out      strings.Builder
		line     strings.Builder
		operands []string
		inText   bool
	)
	newLine := func() {
		if s := strings.TrimSpace(line.String()); s != "" {
			out.WriteString(s)
			out.WriteByte('\n')
		}
		line.Reset()
	}
	lastString := func() (string, bool) {
		if len(operands) == 0 {
			return "", false
		}
		return operands[len(operands)-1], true
	}

	for i := 0; i < len(content); {
		c := content[i]
		switch {
		case isPDFSpace(c):
			i++
		case c == '%':
			for i < len(content) && content[i] != '\n' && content[i] != '\r' {
				i++
			}
		case c == '(':
			lit, next := readLiteral(content, i)
			operands = append(operands, cleanText(lit))
			i = next
		case c == '<' && i+1 < len(content) && content[i+1] == '<':
			i += 2
		case c == '>' && i+1 < len(content) && content[i+1] == '>':
			i += 2
		case c == '<':
			s, next := readHexString(content, i)
			operands = append(operands, s)
			i = next
		case c == '[':
			s, next := readArray(content, i)
			operands = append(operands, s)
			i = next
		default:
			start := i
			for i < len(content) && !isPDFSpace(content[i]) && !isPDFDelimiter(content[i]) {
				i++
			}
			if i == start {
				i++
				continue
			}
			word := string(content[start:i])
			switch word {
			case "BT":
				inText = true
				operands = operands[:0]
			case "ET":
				if inText {
					newLine()
				}
				inText = false
				operands = operands[:0]
			case "Tj", "TJ":
				if s, ok := lastString(); ok && inText {
					line.WriteString(s)
				}
				operands = operands[:0]
			case "'", "\"":
				if inText {
					newLine()
					if s, ok := lastString(); ok {
						line.WriteString(s)
					}
				}
				operands = operands[:0]
			case "Td", "TD", "T*", "Tm":
				if inText {
					newLine()
				}
				operands = operands[:0]
			default:
				if isOperand(word) {
					continue
				}
				operands = operands[:0]
			}
		}
	}
	newLine()
	return strings.TrimSpace(out.String())
}

// readLiteral reads a balanced (...) string starting at content[start] and returns
// the unescaped text and the index after the closing parenthesis.
func readLiteral(content []byte, start int) (string, int) {
	depth := 0
	i := start
	for ; i < len(content); i++ {
		switch content[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return unescapeLiteral(content[start+1 : i]), i + 1
			}
		}
	}
	return unescapeLiteral(content[min(start+1, len(content)):]), len(content)
}

func readHexString(content []byte, start int) (string, int) {
	end := start + 1
	for end < len(content) && content[end] != '>' {
		end++
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, string(content[start+1:min(end, len(content))]))
	if len(digits)%2 == 1 {
		digits += "0"
	}
	raw, err := hex.DecodeString(digits)
	if err != nil {
		return "", min(end+1, len(content))
	}
	return cleanText(latin1(raw)), min(end+1, len(content))
}

// readArray concatenates the strings of a TJ array. Large negative kerning
// offsets are word gaps and become a space.
func readArray(content []byte, start int) (string, int) {
	var sb strings.Builder
	i := start + 1
	for i < len(content) && content[i] != ']' {
		switch c := content[i]; {
		case c == '(':
			lit, next := readLiteral(content, i)
			sb.WriteString(cleanText(lit))
			i = next
		case c == '<':
			s, next := readHexString(content, i)
			sb.WriteString(s)
			i = next
		case c == '-' || c == '.' || (c >= '0' && c <= '9'):
			j := i + 1
			for j < len(content) && (content[j] == '.' || (content[j] >= '0' && content[j] <= '9')) {
				j++
			}
			if v, err := strconv.ParseFloat(string(content[i:j]), 64); err == nil && v <= -200 {
				sb.WriteByte(' ')
			}
			i = j
		default:
			i++
		}
	}
	return sb.String(), min(i+1, len(content))
}

// unescapeLiteral decodes the escape sequences of a PDF literal string.
func unescapeLiteral(raw []byte) string {
	buf := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 >= len(raw) {
			buf = append(buf, c)
			continue
		}
		i++
		switch e := raw[i]; e {
		case 'n':
			buf = append(buf, '\n')
		case 'r':
			buf = append(buf, '\r')
		case 't':
			buf = append(buf, '\t')
		case 'b':
			buf = append(buf, '\b')
		case 'f':
			buf = append(buf, '\f')
		case '(', ')', '\\':
			buf = append(buf, e)
		case '\r':
			// line continuation
			if i+1 < len(raw) && raw[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			if e >= '0' && e <= '7' {
				val := int(e - '0')
				for n := 1; n < 3 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; n++ {
					i++
					val = val*8 + int(raw[i]-'0')
				}
				buf = append(buf, byte(val&0xff))
				continue
			}
			buf = append(buf, e)
		}
	}
	return latin1(buf)
}

func latin1(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}

func cleanText(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			return r
		}
		if r == '\r' {
			return '\n'
		}
		return -1
	}, s)
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isOperand reports whether word is a number or a name, which precede operators.
func isOperand(word string) bool {
	if _, err := strconv.ParseFloat(word, 64); err == nil {
		return true
	}
	return word == "true" || word == "false" || word == "null"
}
