package id_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/common/id"
)

var _ = Describe("Snowflake IDs", func() {
	BeforeEach(func() {
		Expect(id.Init(1)).To(Succeed())
	})

	It("generates distinct increasing ids", func() {
		a := id.New()
		b := id.New()
		Expect(b).To(BeNumerically(">", a))
	})

	It("formats issue ids with the creation date", func() {
		createdAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
		issueID := id.NewIssueID(createdAt)
		Expect(issueID).To(HavePrefix("ISSUE-20260314-"))
		Expect(id.NewIssueID(createdAt)).NotTo(Equal(issueID))
	})
})
