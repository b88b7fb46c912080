package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/internal/model"
	"agilesense.ai/services/internal/queue"
	"agilesense.ai/services/internal/service"
)

var _ = Describe("DeveloperService", func() {
	var (
		ctx      context.Context
		devStore *mockDeveloperStore
		events   *mockProducer
		svc      service.DeveloperService
		now      time.Time
	)

	pending := func(id, category string) model.PendingIssue {
		return model.PendingIssue{ID: id, Title: "t-" + id, Description: "d", Category: category}
	}

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		devStore = newMockDeveloperStore(model.NewDeveloperProfile("alice@example.com", "Alice Perera"))
		events = &mockProducer{}
		svc = service.NewDeveloperService(devStore, events, func() time.Time { return now })
	})

	Describe("Get", func() {
		It("maps a missing profile to ErrDeveloperNotFound", func() {
			_, err := svc.Get(ctx, "nobody@example.com")
			Expect(err).To(MatchError(service.ErrDeveloperNotFound))
		})
	})

	Describe("AssignPending", func() {
		It("defaults status and priority", func() {
			dev, err := svc.AssignPending(ctx, "alice@example.com", pending("ISSUE-1", "API"))
			Expect(err).NotTo(HaveOccurred())
			Expect(dev.PendingIssues["API"]).To(HaveLen(1))
			Expect(dev.PendingIssues["API"][0].Status).To(Equal("pending"))
			Expect(dev.PendingIssues["API"][0].Priority).To(Equal(model.PriorityMedium))
		})

		It("is idempotent by issue id", func() {
			_, err := svc.AssignPending(ctx, "alice@example.com", pending("ISSUE-1", "API"))
			Expect(err).NotTo(HaveOccurred())
			dev, err := svc.AssignPending(ctx, "alice@example.com", pending("ISSUE-1", "API"))
			Expect(err).NotTo(HaveOccurred())

			Expect(dev.PendingIssues["API"]).To(HaveLen(1))
			Expect(devStore.saveCalls).To(Equal(1))
		})

		It("fails for an unknown developer", func() {
			_, err := svc.AssignPending(ctx, "nobody@example.com", pending("ISSUE-1", "API"))
			Expect(err).To(MatchError(service.ErrDeveloperNotFound))
		})
	})

	Describe("Unassign", func() {
		BeforeEach(func() {
			for _, p := range []model.PendingIssue{
				pending("ISSUE-1", "API"),
				pending("ISSUE-2", "API"),
				pending("ISSUE-1", "Database"),
			} {
				_, err := svc.AssignPending(ctx, "alice@example.com", p)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("removes exactly the one pending issue", func() {
			dev, err := svc.Unassign(ctx, "alice@example.com", "API", "ISSUE-1")
			Expect(err).NotTo(HaveOccurred())

			Expect(dev.PendingIssues["API"]).To(HaveLen(1))
			Expect(dev.PendingIssues["API"][0].ID).To(Equal("ISSUE-2"))
			Expect(dev.PendingIssues["Database"]).To(HaveLen(1))
			Expect(dev.PendingIssues["Database"][0].ID).To(Equal("ISSUE-1"))
			Expect(events.types()).To(Equal([]queue.EventType{queue.EventIssueUnassigned}))
		})

		It("writes nothing when the issue is not pending", func() {
			before := devStore.saveCalls
			_, err := svc.Unassign(ctx, "alice@example.com", "API", "ISSUE-9")
			Expect(err).NotTo(HaveOccurred())
			Expect(devStore.saveCalls).To(Equal(before))
			Expect(events.events).To(BeEmpty())
		})

		It("fails for an unknown developer", func() {
			_, err := svc.Unassign(ctx, "nobody@example.com", "API", "ISSUE-1")
			Expect(err).To(MatchError(service.ErrDeveloperNotFound))
		})
	})

	Describe("ResolvePending", func() {
		BeforeEach(func() {
			_, err := svc.AssignPending(ctx, "alice@example.com", pending("ISSUE-1", "API"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves the pending copy to resolved", func() {
			dev, err := svc.ResolvePending(ctx, "alice@example.com", "API", "ISSUE-1", nil)
			Expect(err).NotTo(HaveOccurred())

			Expect(dev.PendingIssues["API"]).To(BeEmpty())
			Expect(dev.ResolvedIssues["API"]).To(HaveLen(1))
			Expect(*dev.ResolvedIssues["API"][0].ResolvedAt).To(BeTemporally("==", now))
		})

		It("uses the supplied resolution time", func() {
			at := now.Add(-time.Hour)
			dev, err := svc.ResolvePending(ctx, "alice@example.com", "API", "ISSUE-1", &at)
			Expect(err).NotTo(HaveOccurred())
			Expect(*dev.ResolvedIssues["API"][0].ResolvedAt).To(BeTemporally("==", at))
		})

		It("fails the second time", func() {
			_, err := svc.ResolvePending(ctx, "alice@example.com", "API", "ISSUE-1", nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.ResolvePending(ctx, "alice@example.com", "API", "ISSUE-1", nil)
			Expect(err).To(MatchError(service.ErrPendingIssueNotFound))

			dev, err := svc.Get(ctx, "alice@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(dev.ResolvedIssues["API"]).To(HaveLen(1))
		})
	})

	Describe("category lookups", func() {
		It("returns empty lists for categories without issues", func() {
			p, err := svc.PendingByCategory(ctx, "alice@example.com", "Security")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).NotTo(BeNil())
			Expect(p).To(BeEmpty())

			r, err := svc.ResolvedByCategory(ctx, "alice@example.com", "Security")
			Expect(err).NotTo(HaveOccurred())
			Expect(r).NotTo(BeNil())
			Expect(r).To(BeEmpty())
		})
	})

	Describe("EnsureSubmitter", func() {
		It("returns the existing profile without writing", func() {
			dev, err := svc.EnsureSubmitter(ctx, "alice@example.com", "Someone Else")
			Expect(err).NotTo(HaveOccurred())
			Expect(dev.Name).To(Equal("Alice Perera"))
			Expect(devStore.upsertCalls).To(BeZero())
		})

		It("creates a zeroed profile for a new submitter", func() {
			dev, err := svc.EnsureSubmitter(ctx, "carol@example.com", "Carol")
			Expect(err).NotTo(HaveOccurred())
			Expect(dev.Email).To(Equal("carol@example.com"))
			Expect(dev.Expertise).To(HaveLen(len(model.Categories)))
			Expect(dev.Expertise["API"]).To(BeZero())
			Expect(devStore.upsertCalls).To(Equal(1))
		})
	})
})
