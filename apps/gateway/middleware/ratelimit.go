package middleware

import (
	"net/http"

	"go-storefront/pkg/response"

	sentinel "github.com/alibaba/sentinel-golang/api"
	"github.com/alibaba/sentinel-golang/core/base"
	"github.com/alibaba/sentinel-golang/core/flow"
	"github.com/gin-gonic/gin"
)

// ResourceCheckout guards POST /orders/checkout.
const ResourceCheckout = "orders_checkout"

// InitRateLimit starts sentinel and installs a reject-on-excess QPS rule for
// every resource in limits.
func InitRateLimit(limits map[string]float64) error {
	if err := sentinel.InitDefault(); err != nil {
		return err
	}
	return LoadLimits(limits)
}

// LoadLimits replaces the active flow rules.
func LoadLimits(limits map[string]float64) error {
	rules := make([]*flow.Rule, 0, len(limits))
	for resource, qps := range limits {
		rules = append(rules, &flow.Rule{
			Resource:               resource,
			TokenCalculateStrategy: flow.Direct,
			ControlBehavior:        flow.Reject,
			Threshold:              qps,
			StatIntervalInMs:       1000,
		})
	}
	_, err := flow.LoadRules(rules)
	return err
}

// RateLimit rejects requests with 429 once resource exceeds its rule.
func RateLimit(resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		e, b := sentinel.Entry(resource, sentinel.WithTrafficType(base.Inbound))
		if b != nil {
			response.Error(c, http.StatusTooManyRequests, "TooManyRequests", "Too many requests, try again later")
			c.Abort()
			return
		}
		defer e.Exit()
		c.Next()
	}
}
