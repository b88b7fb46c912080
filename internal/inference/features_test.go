package inference_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/model"
)

var _ = Describe("ExtractFeatures", func() {
	It("returns the zero vector for empty input", func() {
		Expect(inference.ExtractFeatures("")).To(Equal(model.FeatureVector{}))
		Expect(inference.ExtractFeatures("   \n\t")).To(Equal(model.FeatureVector{}))
	})

	It("scores the hedged sample sentence", func() {
		fv := inference.ExtractFeatures("Um, I think maybe we could possibly try this approach...")
		Expect(fv.HesitationWordCount).To(BeNumerically(">=", 3))
		Expect(fv.FragmentCount).To(BeNumerically(">=", 1))
	})

	It("counts distinct hesitation phrases once each", func() {
		fv := inference.ExtractFeatures("maybe maybe maybe")
		Expect(fv.HesitationWordCount).To(Equal(1))
		Expect(fv.RepetitionCount).To(Equal(1))
	})

	It("computes filler ratio as matches over whitespace words", func() {
		text := "uhh I was... umm -- fine"
		fv := inference.ExtractFeatures(text)
		words := len(strings.Fields(text))
		Expect(inference.FillerMatches(text)).To(Equal(4))
		Expect(fv.FillerRatio).To(Equal(float64(4) / float64(words)))
		Expect(fv.FragmentCount).To(Equal(2))
	})

	It("matches fillers only as whole words, accented letters included", func() {
		Expect(inference.FillerMatches("éum ümm naïveuh")).To(BeZero())
		Expect(inference.FillerMatches("café, um, ça uhh")).To(Equal(2))
		Expect(inference.FillerMatches("summer hummus")).To(BeZero())
	})

	It("measures word length in characters", func() {
		fv := inference.ExtractFeatures("héllo wörld")
		Expect(fv.AvgWordLength).To(Equal(5.0))
	})

	It("counts question marks and auxiliaries", func() {
		fv := inference.ExtractFeatures("Was it being done? Are we sure?")
		Expect(fv.QuestionMarkCount).To(Equal(2))
		// be, being, was and are
		Expect(fv.PassiveCount).To(Equal(4))
	})

	DescribeTable("properties hold for arbitrary text",
		func(text string) {
			a := inference.ExtractFeatures(text)
			b := inference.ExtractFeatures(text)
			Expect(a).To(Equal(b))

			Expect(a.HesitationWordCount).To(BeNumerically(">=", 0))
			Expect(a.FillerRatio).To(BeNumerically(">=", 0))
			Expect(a.AvgWordLength).To(BeNumerically(">=", 0))
			Expect(a.FragmentCount).To(BeNumerically(">=", 0))
			Expect(a.QuestionMarkCount).To(BeNumerically(">=", 0))
			Expect(a.RepetitionCount).To(BeNumerically(">=", 0))
			Expect(a.PassiveCount).To(BeNumerically(">=", 0))

			words := len(strings.Fields(text))
			if words == 0 {
				Expect(a.FillerRatio).To(BeZero())
			} else {
				Expect(a.FillerRatio).To(Equal(float64(inference.FillerMatches(text)) / float64(words)))
			}
		},
		Entry("empty", ""),
		Entry("plain", "We ship the release on Friday."),
		Entry("fillers only", "um uh er ah hmm huh"),
		Entry("dense punctuation", "...--...--???"),
		Entry("mixed case", "I THINK we MIGHT, you know, sort of do it -- maybe?"),
	)
})
