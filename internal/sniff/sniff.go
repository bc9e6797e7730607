// Package sniff infers the field delimiter of a CSV sample.
//
// Two guesses are made, in order:
//
//  1. Quote adjacency: a quoted field directly next to a non-word character
//     names that character as the delimiter.
//  2. Frequency consistency: a character that occurs the same number of times
//     on (nearly) every line of a chunk is a delimiter candidate. Chunks of ten
//     lines are examined until exactly one candidate remains; ties are broken
//     by the preferred order ", \t ; space :".
//
// A sample that yields no candidate returns ErrUndetermined.
package sniff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

var (
	// ErrUndetermined is returned when no delimiter can be inferred.
	ErrUndetermined = errors.New("could not determine delimiter")

	// ErrMismatch matches any *DelimiterError via errors.Is.
	ErrMismatch = errors.New("delimiter mismatch")
)

// preferred breaks ties between equally consistent candidates.
var preferred = []rune{',', '\t', ';', ' ', ':'}

const (
	chunkSize       = 10
	consistencyStep = 0.01
	consistencyMin  = 0.9
)

// Dialect is the result of a successful sniff.
type Dialect struct {
	Delimiter        rune
	Quote            rune // 0 when the sample has no quoted fields
	SkipInitialSpace bool
}

// DelimiterError reports a sample whose delimiter is not the expected one.
type DelimiterError struct {
	Detected rune
	Want     rune
}

func (e *DelimiterError) Error() string {
	return fmt.Sprintf("detected delimiter %q in CSV, only %q separated files are accepted", e.Detected, e.Want)
}

func (e *DelimiterError) Is(target error) bool {
	return target == ErrMismatch
}

// Validate sniffs sample and fails only when a delimiter other than want is
// detected. An inconclusive sample is accepted as-is.
func Validate(sample string, want rune) error {
	d, err := Sniff(sample)
	if err != nil {
		return nil
	}
	if d.Delimiter != want {
		return &DelimiterError{Detected: d.Delimiter, Want: want}
	}
	return nil
}

// Sniff infers the dialect of sample.
func Sniff(sample string) (Dialect, error) {
	data := []rune(sample)

	quote, delim, skip := guessQuoteAndDelimiter(data)
	if delim == 0 {
		delim, skip = guessDelimiter(sample)
	}
	if delim == 0 {
		return Dialect{}, ErrUndetermined
	}
	return Dialect{Delimiter: delim, Quote: quote, SkipInitialSpace: skip}, nil
}

/* ----------------------------------------
	Quote adjacency
---------------------------------------- */

// quoteMatch is one quoted field found next to a delimiter.
type quoteMatch struct {
	quote rune
	delim rune
	space bool
}

// matcher tries to match at position i and returns the match and the
// position where scanning resumes.
type matcher func(data []rune, i int) (quoteMatch, int, bool)

// Patterns are tried in order; the first that matches anywhere wins:
//
//	,".*?",   delimiter, optional space, quoted field, delimiter
//	".*?",    line start, quoted field, delimiter, optional space
//	,".*?"    delimiter, optional space, quoted field, line end
var quotePatterns = []matcher{matchDelimQuoteDelim, matchStartQuoteDelim, matchDelimQuoteEnd}

func guessQuoteAndDelimiter(data []rune) (quote, delim rune, skip bool) {
	var matches []quoteMatch
	for _, match := range quotePatterns {
		matches = findAll(data, match)
		if len(matches) > 0 {
			break
		}
	}
	if len(matches) == 0 {
		return 0, 0, false
	}

	quotes := newCounter()
	delims := newCounter()
	spaces := 0
	for _, m := range matches {
		quotes.add(m.quote)
		delims.add(m.delim)
		if m.space {
			spaces++
		}
	}

	quote = quotes.max()
	delim = delims.max()
	return quote, delim, delims.counts[delim] == spaces
}

func findAll(data []rune, match matcher) []quoteMatch {
	var out []quoteMatch
	for i := 0; i < len(data); {
		m, next, ok := match(data, i)
		if !ok {
			i++
			continue
		}
		out = append(out, m)
		if next <= i {
			next = i + 1
		}
		i = next
	}
	return out
}

func matchDelimQuoteDelim(data []rune, i int) (quoteMatch, int, bool) {
	d := data[i]
	if !isDelimChar(d) {
		return quoteMatch{}, 0, false
	}
	q, p, space, ok := openQuote(data, i+1)
	if !ok {
		return quoteMatch{}, 0, false
	}
	for j := p; j+1 < len(data); j++ {
		if data[j] == q && data[j+1] == d {
			return quoteMatch{quote: q, delim: d, space: space}, j + 2, true
		}
	}
	return quoteMatch{}, 0, false
}

func matchStartQuoteDelim(data []rune, i int) (quoteMatch, int, bool) {
	var p int
	switch {
	case atLineStart(data, i) && isQuote(data[i]):
		p = i
	case data[i] == '\n' && i+1 < len(data) && isQuote(data[i+1]):
		p = i + 1
	default:
		return quoteMatch{}, 0, false
	}
	q := data[p]
	for j := p + 1; j+1 < len(data); j++ {
		if data[j] != q || !isDelimChar(data[j+1]) {
			continue
		}
		end := j + 2
		space := end < len(data) && data[end] == ' '
		if space {
			end++
		}
		return quoteMatch{quote: q, delim: data[j+1], space: space}, end, true
	}
	return quoteMatch{}, 0, false
}

func matchDelimQuoteEnd(data []rune, i int) (quoteMatch, int, bool) {
	d := data[i]
	if !isDelimChar(d) {
		return quoteMatch{}, 0, false
	}
	q, p, space, ok := openQuote(data, i+1)
	if !ok {
		return quoteMatch{}, 0, false
	}
	for j := p; j < len(data); j++ {
		if data[j] == q && (j+1 == len(data) || data[j+1] == '\n') {
			return quoteMatch{quote: q, delim: d, space: space}, j + 1, true
		}
	}
	return quoteMatch{}, 0, false
}

// openQuote matches an optional space followed by a quote character at i. It
// returns the quote, the position after it, and whether a space was consumed.
func openQuote(data []rune, i int) (rune, int, bool, bool) {
	if i+1 < len(data) && data[i] == ' ' && isQuote(data[i+1]) {
		return data[i+1], i + 2, true, true
	}
	if i < len(data) && isQuote(data[i]) {
		return data[i], i + 1, false, true
	}
	return 0, 0, false, false
}

func atLineStart(data []rune, i int) bool {
	return i == 0 || data[i-1] == '\n'
}

func isQuote(r rune) bool {
	return r == '"' || r == '\''
}

// isDelimChar matches anything that is not a word character, newline or quote.
func isDelimChar(r rune) bool {
	if r == '\n' || isQuote(r) || r == '_' {
		return false
	}
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

// counter tallies runes and remembers first-seen order for tie breaks.
type counter struct {
	order  []rune
	counts map[rune]int
}

func newCounter() *counter {
	return &counter{counts: make(map[rune]int)}
}

func (c *counter) add(r rune) {
	if _, ok := c.counts[r]; !ok {
		c.order = append(c.order, r)
	}
	c.counts[r]++
}

func (c *counter) max() rune {
	var best rune
	bestN := -1
	for _, r := range c.order {
		if c.counts[r] > bestN {
			best, bestN = r, c.counts[r]
		}
	}
	return best
}

/* ----------------------------------------
	Frequency consistency
---------------------------------------- */

// mode is the most common per-line frequency of a character and how many
// lines agree with it, net of the lines that disagree.
type mode struct {
	freq  int
	count int
}

// less orders modes the way candidates are ranked when no preferred
// delimiter is present.
func (m mode) less(o mode) bool {
	if m.freq != o.freq {
		return m.freq < o.freq
	}
	return m.count < o.count
}

// histogram maps a per-line frequency to the number of lines showing it.
type histogram struct {
	order  []int
	counts map[int]int
}

func (h *histogram) add(freq int) {
	if h.counts == nil {
		h.counts = make(map[int]int)
	}
	if _, ok := h.counts[freq]; !ok {
		h.order = append(h.order, freq)
	}
	h.counts[freq]++
}

func (h *histogram) mode() (mode, bool) {
	if len(h.order) == 1 {
		if h.order[0] == 0 {
			return mode{}, false
		}
		return mode{freq: h.order[0], count: h.counts[h.order[0]]}, true
	}
	best := mode{count: -1}
	for _, f := range h.order {
		if h.counts[f] > best.count {
			best = mode{freq: f, count: h.counts[f]}
		}
	}
	for _, f := range h.order {
		if f != best.freq {
			best.count -= h.counts[f]
		}
	}
	return best, true
}

func guessDelimiter(sample string) (rune, bool) {
	var lines []string
	for _, l := range strings.Split(sample, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}

	chunk := min(chunkSize, len(lines))
	var freqs [unicode.MaxASCII]histogram

	modes := make(map[rune]mode)
	var modeOrder []rune
	delims := make(map[rune]mode)
	var delimOrder []rune

	iteration := 0
	for start, end := 0, chunk; start < len(lines); start, end = end, end+chunk {
		iteration++
		for _, line := range lines[start:min(end, len(lines))] {
			var n [unicode.MaxASCII]int
			for i := 0; i < len(line); i++ {
				if line[i] < unicode.MaxASCII {
					n[line[i]]++
				}
			}
			for c := range freqs {
				freqs[c].add(n[c])
			}
		}

		for c := range freqs {
			m, ok := freqs[c].mode()
			if !ok {
				continue
			}
			r := rune(c)
			if _, seen := modes[r]; !seen {
				modeOrder = append(modeOrder, r)
			}
			modes[r] = m
		}

		total := float64(min(chunk*iteration, len(lines)))
		for consistency := 1.0; len(delims) == 0 && consistency >= consistencyMin; consistency -= consistencyStep {
			for _, r := range modeOrder {
				m := modes[r]
				if m.freq > 0 && m.count > 0 && float64(m.count)/total >= consistency {
					if _, seen := delims[r]; !seen {
						delimOrder = append(delimOrder, r)
					}
					delims[r] = m
				}
			}
		}

		if len(delims) == 1 {
			d := delimOrder[0]
			return d, skipsInitialSpace(lines[0], d)
		}
	}

	if len(delims) == 0 {
		return 0, false
	}

	for _, d := range preferred {
		if _, ok := delims[d]; ok {
			return d, skipsInitialSpace(lines[0], d)
		}
	}

	sort.Slice(delimOrder, func(i, j int) bool {
		a, b := delims[delimOrder[i]], delims[delimOrder[j]]
		if a != b {
			return a.less(b)
		}
		return delimOrder[i] < delimOrder[j]
	})
	d := delimOrder[len(delimOrder)-1]
	return d, skipsInitialSpace(lines[0], d)
}

// skipsInitialSpace reports whether every delimiter on line is followed by a space.
func skipsInitialSpace(line string, d rune) bool {
	return strings.Count(line, string(d)) == strings.Count(line, string(d)+" ")
}
