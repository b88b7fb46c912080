package config_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/core/config"
)

var _ = Describe("Load", func() {
	setEnv := func(key, value string) {
		prev, had := os.LookupEnv(key)
		Expect(os.Setenv(key, value)).To(Succeed())
		DeferCleanup(func() {
			if had {
				_ = os.Setenv(key, prev)
			} else {
				_ = os.Unsetenv(key)
			}
		})
	}

	BeforeEach(func() {
		setEnv("AGILESENSE_ENV", "test")
	})

	It("applies brainstorm defaults", func() {
		cfg, err := config.Load(config.ServiceTypeBrainstorm)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Port).To(Equal("8004"))
		Expect(cfg.Models.HesitationHighThreshold).To(Equal(0.7))
		Expect(cfg.Models.HesitationMediumThreshold).To(Equal(0.4))
		Expect(cfg.Models.RephraseThreshold).To(Equal(0.6))
		Expect(cfg.CORSOrigins).To(ContainElement("http://localhost:5173"))
	})

	It("reads thresholds and CORS origins from the environment", func() {
		setEnv("HESITATION_HIGH_THRESHOLD", "0.9")
		setEnv("HESITATION_MEDIUM_THRESHOLD", "0.5")
		setEnv("CORS_ORIGINS", "https://a.example, https://b.example")

		cfg, err := config.Load(config.ServiceTypeBrainstorm)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Models.HesitationHighThreshold).To(Equal(0.9))
		Expect(cfg.Models.HesitationMediumThreshold).To(Equal(0.5))
		Expect(cfg.CORSOrigins).To(Equal([]string{"https://a.example", "https://b.example"}))
	})

	It("rejects inverted thresholds", func() {
		setEnv("HESITATION_HIGH_THRESHOLD", "0.3")
		setEnv("HESITATION_MEDIUM_THRESHOLD", "0.5")

		_, err := config.Load(config.ServiceTypeBrainstorm)
		Expect(err).To(MatchError(ContainSubstring("HESITATION_MEDIUM_THRESHOLD")))
	})

	It("requires ArangoDB for the expertise service", func() {
		setEnv("ARANGO_URL", "")

		_, err := config.Load(config.ServiceTypeExpertise)
		Expect(err).To(MatchError(ContainSubstring("ARANGO_URL")))
	})

	It("lets the cli load without ArangoDB", func() {
		setEnv("ARANGO_URL", "")

		cfg, err := config.Load(config.ServiceTypeCLI)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.ArangoDB.Enabled()).To(BeFalse())
	})

	It("accepts a complete expertise configuration", func() {
		setEnv("ARANGO_URL", "http://localhost:8529")
		setEnv("ARANGO_USERNAME", "root")

		cfg, err := config.Load(config.ServiceTypeExpertise)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Port).To(Equal("8000"))
		Expect(cfg.ArangoDB.Database).To(Equal("agilesense_ai"))
		Expect(cfg.Events.Enabled()).To(BeFalse())
	})
})
