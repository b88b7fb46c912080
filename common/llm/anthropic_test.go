package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/common/llm"
)

const anthropicReply = `{
	"id": "msg_01",
	"type": "message",
	"role": "assistant",
	"model": "claude-test",
	"content": [{"type": "text", "text": "We could try this approach."}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 12, "output_tokens": 6}
}`

var _ = Describe("Anthropic Generate", func() {
	var (
		srv    *httptest.Server
		bodies chan map[string]any
	)

	BeforeEach(func() {
		bodies = make(chan map[string]any, 4)
		srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, &body)
			bodies <- body
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, anthropicReply)
		}))
		DeferCleanup(srv.Close)
	})

	sent := func() map[string]any {
		var body map[string]any
		Expect(bodies).To(Receive(&body))
		return body
	}

	generate := func(req llm.GenerateRequest) *llm.Generation {
		client, err := llm.New(llm.Config{
			Provider: llm.ProviderAnthropic,
			APIKey:   "test-key",
			BaseURL:  srv.URL + "/",
			Model:    "claude-test",
		})
		Expect(err).NotTo(HaveOccurred())
		gen, err := client.Generate(context.Background(), req)
		Expect(err).NotTo(HaveOccurred())
		return gen
	}

	It("sends temperature without top_p when both are given", func() {
		gen := generate(llm.GenerateRequest{
			Prompt:      "um maybe we could try this",
			Temperature: llm.Temp(0.7),
			TopP:        llm.Temp(0.9),
		})
		Expect(gen.Text).To(Equal("We could try this approach."))
		body := sent()
		Expect(body).To(HaveKeyWithValue("temperature", 0.7))
		Expect(body).NotTo(HaveKey("top_p"))
	})

	It("sends top_p when it is the only sampling setting", func() {
		generate(llm.GenerateRequest{Prompt: "hello", TopP: llm.Temp(0.9)})
		body := sent()
		Expect(body).To(HaveKeyWithValue("top_p", 0.9))
		Expect(body).NotTo(HaveKey("temperature"))
	})
})
