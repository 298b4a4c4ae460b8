package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ReportsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lenbersih_reports_submitted_total",
		Help: "Reports accepted and persisted.",
	})

	ReportsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lenbersih_reports_rejected_total",
		Help: "Report submissions rejected before persistence.",
	}, []string{"reason"})

	CaptchaValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lenbersih_captcha_validations_total",
		Help: "CAPTCHA validation outcomes.",
	}, []string{"result"})

	EmailFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lenbersih_email_failures_total",
		Help: "Admin notification emails that failed to send.",
	})
)

// Handler exposes the default prometheus registry as a fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
