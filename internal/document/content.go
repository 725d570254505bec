package document

import (
	"bytes"
	"strconv"
	"strings"
)

// textRun is a piece of shown text together with the fill color active when
// it was painted, packed as 0xRRGGBB.
type textRun struct {
	text  string
	color int
}

// parseContent walks a decoded page content stream and returns the text
// runs it paints. Only the operators relevant to invisible-text detection
// are interpreted: fill color operators (g, rg, k, sc, scn) and text-showing
// operators (Tj, TJ, ' and "). Everything else is consumed and discarded.
//
// Operands accumulate until an operator token is read, then the operator is
// applied and the operand buffers reset, mirroring how PDF content streams
// are structured.
func parseContent(data []byte) []textRun {
	var runs []textRun
	var nums []float64
	var strs []string
	fill := 0x000000 // default fill color is black

	i := 0
	for i < len(data) {
		c := data[i]
		switch {
		case isContentSpace(c):
			i++

		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}

		case c == '(':
			s, next := readLiteralString(data, i)
			strs = append(strs, s)
			i = next

		case c == '<':
			if i+1 < len(data) && data[i+1] == '<' {
				i = skipDictionary(data, i)
			} else {
				s, next := readHexString(data, i)
				strs = append(strs, s)
				i = next
			}

		case c == '>':
			// Stray dictionary close; consume.
			i++
			if i < len(data) && data[i] == '>' {
				i++
			}

		case c == '[' || c == ']' || c == '{' || c == '}':
			i++

		case c == '/':
			i++
			for i < len(data) && !isContentDelimiter(data[i]) {
				i++
			}

		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			f, next := readNumber(data, i)
			nums = append(nums, f)
			i = next

		default:
			op, next := readOperatorToken(data, i)
			i = next
			if op == "" {
				i++
				continue
			}

			switch op {
			case "g":
				if len(nums) >= 1 {
					v := channel(nums[len(nums)-1])
					fill = v<<16 | v<<8 | v
				}
			case "rg":
				if len(nums) >= 3 {
					fill = packRGB(nums[len(nums)-3], nums[len(nums)-2], nums[len(nums)-1])
				}
			case "k":
				if len(nums) >= 4 {
					fill = packCMYK(nums[len(nums)-4], nums[len(nums)-3], nums[len(nums)-2], nums[len(nums)-1])
				}
			case "sc", "scn":
				// Color space unknown; infer from operand count.
				switch len(nums) {
				case 1:
					v := channel(nums[0])
					fill = v<<16 | v<<8 | v
				case 3:
					fill = packRGB(nums[0], nums[1], nums[2])
				case 4:
					fill = packCMYK(nums[0], nums[1], nums[2], nums[3])
				}
			case "Tj", "'", "\"":
				if len(strs) > 0 {
					runs = append(runs, textRun{text: strs[len(strs)-1], color: fill})
				}
			case "TJ":
				if len(strs) > 0 {
					runs = append(runs, textRun{text: strings.Join(strs, ""), color: fill})
				}
			case "BI":
				i = skipInlineImage(data, i)
			}

			nums = nums[:0]
			strs = strs[:0]
		}
	}

	return runs
}

func isContentSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isContentDelimiter(c byte) bool {
	return isContentSpace(c) || c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' || c == '/' || c == '%'
}

// readLiteralString reads a (...) string starting at the open paren,
// decoding the common escapes and honoring nested parentheses.
func readLiteralString(data []byte, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	for i < len(data) {
		c := data[i]
		switch c {
		case '\\':
			if i+1 >= len(data) {
				return sb.String(), i + 1
			}
			i++
			switch data[i] {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b':
				sb.WriteByte('\b')
			case 'f':
				sb.WriteByte('\f')
			case '(', ')', '\\':
				sb.WriteByte(data[i])
			default:
				if data[i] >= '0' && data[i] <= '7' {
					// Up to three octal digits.
					v := 0
					n := 0
					for n < 3 && i < len(data) && data[i] >= '0' && data[i] <= '7' {
						v = v*8 + int(data[i]-'0')
						i++
						n++
					}
					i--
					sb.WriteByte(byte(v))
				} else {
					sb.WriteByte(data[i])
				}
			}
			i++
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				return sb.String(), i
			}
			sb.WriteByte(c)
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), i
}

// readHexString reads a <...> hex string starting at the open angle bracket.
func readHexString(data []byte, start int) (string, int) {
	var hexDigits []byte
	i := start + 1
	for i < len(data) && data[i] != '>' {
		c := data[i]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			hexDigits = append(hexDigits, c)
		}
		i++
	}
	if i < len(data) {
		i++ // consume '>'
	}
	if len(hexDigits)%2 == 1 {
		hexDigits = append(hexDigits, '0')
	}
	var sb strings.Builder
	for j := 0; j+1 < len(hexDigits); j += 2 {
		hi := hexVal(hexDigits[j])
		lo := hexVal(hexDigits[j+1])
		sb.WriteByte(byte(hi<<4 | lo))
	}
	return sb.String(), i
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

// readNumber reads a numeric operand. Malformed numbers read as zero.
func readNumber(data []byte, start int) (float64, int) {
	i := start
	for i < len(data) && (data[i] == '+' || data[i] == '-' || data[i] == '.' || (data[i] >= '0' && data[i] <= '9')) {
		i++
	}
	f, err := strconv.ParseFloat(string(data[start:i]), 64)
	if err != nil {
		return 0, i
	}
	return f, i
}

// readOperatorToken reads an operator keyword such as rg, Tj, T*, ' or ".
func readOperatorToken(data []byte, start int) (string, int) {
	c := data[start]
	if c == '\'' || c == '"' {
		return string(c), start + 1
	}
	i := start
	for i < len(data) {
		c := data[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*' || c == '0' || c == '1' {
			i++
			continue
		}
		break
	}
	return string(data[start:i]), i
}

// skipDictionary skips a << ... >> dictionary, honoring nesting and strings.
func skipDictionary(data []byte, start int) int {
	depth := 0
	i := start
	for i < len(data) {
		switch {
		case i+1 < len(data) && data[i] == '<' && data[i+1] == '<':
			depth++
			i += 2
		case i+1 < len(data) && data[i] == '>' && data[i+1] == '>':
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		case data[i] == '(':
			_, i = readLiteralString(data, i)
		default:
			i++
		}
	}
	return i
}

// skipInlineImage skips the binary payload of a BI ... ID ... EI sequence.
func skipInlineImage(data []byte, start int) int {
	if idx := bytes.Index(data[start:], []byte("EI")); idx >= 0 {
		return start + idx + 2
	}
	return len(data)
}

func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(v*255 + 0.5)
}

func packRGB(r, g, b float64) int {
	return channel(r)<<16 | channel(g)<<8 | channel(b)
}

func packCMYK(c, m, y, k float64) int {
	r := channel((1 - clamp01(c)) * (1 - clamp01(k)))
	g := channel((1 - clamp01(m)) * (1 - clamp01(k)))
	b := channel((1 - clamp01(y)) * (1 - clamp01(k)))
	return r<<16 | g<<8 | b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
