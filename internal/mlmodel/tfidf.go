package mlmodel

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

const defaultTokenPattern = `\b\w\w+\b`

// TfidfVectorizer mirrors sklearn.feature_extraction.text.TfidfVectorizer.transform
// for word analyzers.
type TfidfVectorizer struct {
	Vocabulary   map[string]int `json:"vocabulary"`
	IDF          []float64      `json:"idf"`
	Lowercase    *bool          `json:"lowercase,omitempty"`
	NgramRange   [2]int         `json:"ngram_range"`
	TokenPattern string         `json:"token_pattern,omitempty"`
	StopWords    []string       `json:"stop_words,omitempty"`
	SublinearTF  bool           `json:"sublinear_tf"`
	Norm         string         `json:"norm,omitempty"`

	tokenRe *regexp.Regexp
	stop    map[string]struct{}
}

func LoadTfidfVectorizer(path string) (*TfidfVectorizer, error) {
	var v TfidfVectorizer
	if err := loadJSON(path, &v); err != nil {
		return nil, err
	}
	if err := v.Compile(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &v, nil
}

// Compile validates the exported parameters and prepares the tokenizer. It
// must be called before Transform on a vectorizer not built by the loader.
func (v *TfidfVectorizer) Compile() error {
	if len(v.Vocabulary) == 0 {
		return fmt.Errorf("empty vocabulary")
	}
	if len(v.IDF) != len(v.Vocabulary) {
		return fmt.Errorf("%w: vocabulary has %d terms, idf has %d", ErrDimension, len(v.Vocabulary), len(v.IDF))
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= len(v.IDF) {
			return fmt.Errorf("%w: term %q maps to column %d", ErrDimension, term, idx)
		}
	}
	if v.NgramRange == [2]int{} {
		v.NgramRange = [2]int{1, 1}
	}
	if v.NgramRange[0] < 1 || v.NgramRange[1] < v.NgramRange[0] {
		return fmt.Errorf("invalid ngram_range %v", v.NgramRange)
	}
	switch v.Norm {
	case "", "l2", "l1", "none":
	default:
		return fmt.Errorf("unsupported norm %q", v.Norm)
	}

	pattern := v.TokenPattern
	if pattern == "" {
		pattern = defaultTokenPattern
	}
	re, err := regexp.Compile(UnicodePattern(pattern))
	if err != nil {
		return fmt.Errorf("compiling token_pattern: %w", err)
	}
	v.tokenRe = re

	v.stop = make(map[string]struct{}, len(v.StopWords))
	for _, w := range v.StopWords {
		v.stop[w] = struct{}{}
	}
	return nil
}

// wordChars is the class Python's re matches for \w on str patterns.
const wordChars = `\p{L}\p{N}_`

// UnicodePattern rewrites a Python token pattern for RE2. Python matches \w,
// \d and \b against Unicode; RE2 only against ASCII. \w and \d become
// Unicode classes. A \b next to a \w run is dropped, which matches Python for
// unbounded runs such as the default \b\w\w+\b. Other \b stay ASCII.
func UnicodePattern(p string) string {
	p = strings.ReplaceAll(p, "(?u)", "")

	var b strings.Builder
	inClass := false
	wordRun := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '\\' && i+1 < len(p) {
			i++
			e := p[i]
			switch {
			case e == 'w' && inClass:
				b.WriteString(wordChars)
			case e == 'w':
				b.WriteString("[" + wordChars + "]")
				wordRun = true
				continue
			case e == 'W' && !inClass:
				b.WriteString("[^" + wordChars + "]")
			case e == 'd':
				b.WriteString(`\p{Nd}`)
			case e == 'b' && !inClass && (wordRun || strings.HasPrefix(p[i+1:], `\w`)):
				// dropped
			default:
				b.WriteByte(c)
				b.WriteByte(e)
			}
			wordRun = false
			continue
		}

		switch {
		case c == '[' && !inClass:
			inClass = true
			b.WriteByte(c)
			if i+1 < len(p) && p[i+1] == '^' {
				i++
				b.WriteByte('^')
			}
			if i+1 < len(p) && p[i+1] == ']' {
				i++
				b.WriteByte(']')
			}
			wordRun = false
			continue
		case c == ']' && inClass:
			inClass = false
		}
		b.WriteByte(c)

		if wordRun && !inClass {
			switch c {
			case '+', '*', '?':
				continue
			case '{':
				for i+1 < len(p) && p[i] != '}' {
					i++
					b.WriteByte(p[i])
				}
				continue
			}
		}
		wordRun = false
	}
	return b.String()
}

func (v *TfidfVectorizer) NumFeatures() int {
	return len(v.IDF)
}

func (v *TfidfVectorizer) tokens(doc string) []string {
	if v.Lowercase == nil || *v.Lowercase {
		doc = strings.ToLower(doc)
	}
	raw := v.tokenRe.FindAllString(doc, -1)
	if len(v.stop) == 0 {
		return raw
	}
	out := raw[:0]
	for _, t := range raw {
		if _, ok := v.stop[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}

// Transform returns the tf-idf row for doc as column index to weight. Terms
// outside the vocabulary are ignored.
func (v *TfidfVectorizer) Transform(doc string) map[int]float64 {
	tokens := v.tokens(doc)

	counts := make(map[int]float64)
	for n := v.NgramRange[0]; n <= v.NgramRange[1]; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			gram := strings.Join(tokens[i:i+n], " ")
			if idx, ok := v.Vocabulary[gram]; ok {
				counts[idx]++
			}
		}
	}

	var norm float64
	for idx, tf := range counts {
		if v.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		w := tf * v.IDF[idx]
		counts[idx] = w
		switch v.Norm {
		case "l1":
			norm += math.Abs(w)
		case "none":
		default:
			norm += w * w
		}
	}

	switch v.Norm {
	case "none":
		return counts
	case "l1":
	default:
		norm = math.Sqrt(norm)
	}
	if norm > 0 {
		for idx := range counts {
			counts[idx] /= norm
		}
	}
	return counts
}
