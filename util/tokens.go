package util

// Tokens identifies up to the first len(tokens) tokens of line, returning the
// number of tokens saved.  Any (group of) characters <= ' ' is a delimiter.
// The tokens alias line.
func Tokens(tokens [][]byte, line []byte) int {
	posEnd := 0
	lineLen := len(line)
	for tokenIdx := range tokens {
		// These simple loops are better than any of the standard library
		// string-split functions when <20 tokens are expected.
		pos := posEnd
		for ; pos != lineLen; pos++ {
			if line[pos] > ' ' {
				break
			}
		}
		if pos == lineLen {
			return tokenIdx
		}
		posEnd = pos
		for ; posEnd != lineLen; posEnd++ {
			if line[posEnd] <= ' ' {
				break
			}
		}
		tokens[tokenIdx] = line[pos:posEnd]
	}
	return len(tokens)
}
