package inference_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/common/llm"
	"agilesense.ai/services/internal/inference"
)

var _ = Describe("Rephraser", func() {
	var (
		ctx context.Context
		gen *mockLLM
		got llm.GenerateRequest
	)

	BeforeEach(func() {
		ctx = context.Background()
		gen = &mockLLM{}
		gen.generateFn = func(_ context.Context, req llm.GenerateRequest) (*llm.Generation, error) {
			got = req
			return &llm.Generation{Text: "  We will implement authentication.\n"}, nil
		}
	})

	It("fails with ErrModelNotReady without a generator", func() {
		_, err := inference.NewRephraser(nil).Rephrase(ctx, "text", "")
		Expect(err).To(MatchError(inference.ErrModelNotReady))
	})

	It("prefixes the task and samples with fixed parameters", func() {
		res, err := inference.NewRephraser(gen).Rephrase(ctx, "I think maybe we could try implementing authentication.", "")
		Expect(err).NotTo(HaveOccurred())

		Expect(got.Prompt).To(Equal("rephrase: I think maybe we could try implementing authentication."))
		Expect(*got.Temperature).To(Equal(0.7))
		Expect(*got.TopP).To(Equal(0.9))

		Expect(res.OriginalText).To(Equal("I think maybe we could try implementing authentication."))
		Expect(res.RephrasedText).To(Equal("We will implement authentication."))
		Expect(res.Improvements).To(Equal([]string{
			"Removed hedging word: 'maybe'",
			"Removed hedging word: 'I think'",
			"Simplified sentence structure",
		}))
	})

	It("includes the context in the prompt", func() {
		_, err := inference.NewRephraser(gen).Rephrase(ctx, "hello", "Technical discussion")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.Prompt).To(Equal("rephrase with context Technical discussion: hello"))
	})

	It("wraps generator failures", func() {
		gen.generateFn = func(context.Context, llm.GenerateRequest) (*llm.Generation, error) {
			return nil, errors.New("rate limited")
		}
		_, err := inference.NewRephraser(gen).Rephrase(ctx, "hello", "")
		var ie *inference.InferenceError
		Expect(errors.As(err, &ie)).To(BeTrue())
		Expect(ie.Op).To(Equal("rephrase"))
	})
})

var _ = Describe("Improvements", func() {
	DescribeTable("diffs original against rephrased text",
		func(original, rephrased string, expected []string) {
			Expect(inference.Improvements(original, rephrased)).To(Equal(expected))
		},
		Entry("passive to active",
			"the bug will be fixed soon",
			"we fix the bug soon ok",
			[]string{"Converted passive to active voice"}),
		Entry("case-insensitive hedges",
			"Perhaps we ship",
			"We ship now",
			[]string{"Removed hedging word: 'perhaps'"}),
		Entry("kept hedges are not reported",
			"maybe later",
			"maybe later",
			[]string{"Enhanced clarity and directness"}),
		Entry("shorter output",
			"we should go and ship it",
			"ship it",
			[]string{"Simplified sentence structure"}),
	)
})
