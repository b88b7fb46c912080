package arangodb_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/common/arangodb"
)

type sliceCursor struct {
	docs   []any
	pos    int
	closed bool
}

func (c *sliceCursor) HasMore() bool { return c.pos < len(c.docs) }

func (c *sliceCursor) ReadDocument(_ context.Context, out any) error {
	raw, err := json.Marshal(c.docs[c.pos])
	if err != nil {
		return err
	}
	c.pos++
	return json.Unmarshal(raw, out)
}

func (c *sliceCursor) Close() error {
	c.closed = true
	return nil
}

type doc struct {
	Email string `json:"email"`
}

var _ = Describe("cursor helpers", func() {
	ctx := context.Background()

	It("reads every document and closes the cursor", func() {
		cur := &sliceCursor{docs: []any{doc{Email: "a@x.io"}, doc{Email: "b@x.io"}}}

		docs, err := arangodb.ReadAll[doc](ctx, cur)
		Expect(err).NotTo(HaveOccurred())
		Expect(docs).To(Equal([]doc{{Email: "a@x.io"}, {Email: "b@x.io"}}))
		Expect(cur.closed).To(BeTrue())
	})

	It("returns ErrNotFound from ReadOne on an empty cursor", func() {
		cur := &sliceCursor{}

		_, err := arangodb.ReadOne[doc](ctx, cur)
		Expect(err).To(MatchError(arangodb.ErrNotFound))
		Expect(cur.closed).To(BeTrue())
	})

	It("reads the first document with ReadOne", func() {
		cur := &sliceCursor{docs: []any{int64(7)}}

		n, err := arangodb.ReadOne[int64](ctx, cur)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(7)))
	})
})

var _ = Describe("Config", func() {
	DescribeTable("Validate",
		func(cfg arangodb.Config, msg string) {
			err := cfg.Validate()
			if msg == "" {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("complete", arangodb.Config{URL: "http://localhost:8529", Username: "root", Database: "agilesense_ai"}, ""),
		Entry("missing url", arangodb.Config{Username: "root", Database: "agilesense_ai"}, "URL is required"),
		Entry("missing username", arangodb.Config{URL: "http://localhost:8529", Database: "agilesense_ai"}, "username is required"),
		Entry("missing database", arangodb.Config{URL: "http://localhost:8529", Username: "root"}, "database name is required"),
	)
})

var _ = Describe("MakeKey", func() {
	It("is stable and key-safe", func() {
		key := arangodb.MakeKey("alice@example.com")
		Expect(key).To(HaveLen(16))
		Expect(key).To(MatchRegexp(`^[0-9a-f]+$`))
		Expect(arangodb.MakeKey("alice@example.com")).To(Equal(key))
		Expect(arangodb.MakeKey("bob@example.com")).NotTo(Equal(key))
	})
})
