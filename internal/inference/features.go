package inference

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"agilesense.ai/services/internal/model"
)

var hesitationPhrases = []string{
	"uh", "um", "er", "ah", "hmm", "well", "like", "you know",
	"i mean", "sort of", "kind of", "maybe", "perhaps",
	"possibly", "probably", "i think", "i guess", "i suppose",
}

// Filler words are matched against whole Unicode word runs; RE2's \b only
// knows ASCII word characters, so "éum" would otherwise count.
var (
	wordRunPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)
	fillerWords    = []*regexp.Regexp{
		regexp.MustCompile(`^(uh+|um+|er+|ah+)$`),
		regexp.MustCompile(`^(hmm+|huh+)$`),
	}
	fillerMarks = []*regexp.Regexp{
		regexp.MustCompile(`\.\.\.`),
		regexp.MustCompile(`--`),
	}
)

var passiveAuxiliaries = []string{"be", "been", "being", "was", "were", "is", "are"}

// ExtractFeatures computes the hesitation feature vector for text. Phrase
// and auxiliary checks are substring tests on the lower-cased text, so "um"
// also matches inside "number"; the classifier was trained on exactly these
// features.
func ExtractFeatures(text string) model.FeatureVector {
	lower := strings.ToLower(text)
	words := strings.Fields(text)

	var fv model.FeatureVector

	for _, p := range hesitationPhrases {
		if strings.Contains(lower, p) {
			fv.HesitationWordCount++
		}
	}

	fillers := countFillers(lower)

	if len(words) > 0 {
		fv.FillerRatio = float64(fillers) / float64(len(words))

		total := 0
		for _, w := range words {
			total += utf8.RuneCountInString(w)
		}
		fv.AvgWordLength = float64(total) / float64(len(words))
	}

	fv.FragmentCount = strings.Count(text, "...") + strings.Count(text, "--")
	fv.QuestionMarkCount = strings.Count(text, "?")

	seen := make(map[string]int, len(words))
	for _, w := range words {
		seen[strings.ToLower(w)]++
	}
	for _, n := range seen {
		if n > 1 {
			fv.RepetitionCount++
		}
	}

	for _, aux := range passiveAuxiliaries {
		if strings.Contains(lower, aux) {
			fv.PassiveCount++
		}
	}

	return fv
}

// FillerMatches returns the number of filler pattern matches in text.
func FillerMatches(text string) int {
	return countFillers(strings.ToLower(text))
}

func countFillers(lower string) int {
	n := 0
	for _, word := range wordRunPattern.FindAllString(lower, -1) {
		for _, re := range fillerWords {
			if re.MatchString(word) {
				n++
			}
		}
	}
	for _, re := range fillerMarks {
		n += len(re.FindAllStringIndex(lower, -1))
	}
	return n
}
