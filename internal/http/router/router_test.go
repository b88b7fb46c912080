package router_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"agilesense.ai/services/internal/http/router"
	"agilesense.ai/services/internal/inference"
	"agilesense.ai/services/internal/service"
	"agilesense.ai/services/internal/store"
)

func post(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

var _ = Describe("Routes", func() {
	var services *service.Services

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		services = service.NewServices(store.NewStores(nil, nil), &inference.ModelBundle{}, nil, service.BrainstormConfig{RephraseThreshold: 0.6})
	})

	Context("brainstorm", func() {
		var engine *gin.Engine

		BeforeEach(func() {
			engine = gin.New()
			router.BrainstormRoutes(engine, services.Brainstorm(), router.BrainstormConfig{})
		})

		It("serves the root banner", func() {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("answers 503 for every model endpoint when nothing is loaded", func() {
			for _, path := range []string{"/api/v1/extract-entities", "/api/v1/detect-hesitation", "/api/v1/rephrase", "/api/v1/analyze"} {
				w := post(engine, path, `{"text":"maybe we could"}`)
				Expect(w.Code).To(Equal(http.StatusServiceUnavailable), path)
			}
		})

		It("answers 503 for session history without Postgres", func() {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s-1/analyses", nil))
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})
	})

	Context("expertise", func() {
		It("registers every route and reports an unloaded classifier", func() {
			engine := gin.New()
			Expect(func() {
				router.ExpertiseRoutes(engine, services, func() map[string]bool {
					return map[string]bool{"category_model": false}
				}, router.ExpertiseConfig{})
			}).NotTo(Panic())

			w := post(engine, "/api/expertise/predict", `{"description":"login page is slow"}`)
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))

			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(`"degraded"`))
		})
	})
})
