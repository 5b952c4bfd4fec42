// Package prometheus exposes hub metrics for scraping.
package prometheus

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// DefaultRegistry is the registry applications normally hand to
// hub.WithMetrics and scrape through Handler.
var DefaultRegistry = prometheus.NewRegistry()

// Handler returns an HTTP handler for the metrics endpoint (for standard http)
func Handler() http.Handler {
	return HandlerFor(DefaultRegistry)
}

// HandlerFor returns an HTTP handler for a custom registry
func HandlerFor(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// FastHTTPHandler returns a fasthttp request handler for the metrics endpoint
func FastHTTPHandler() fasthttp.RequestHandler {
	return FastHTTPHandlerFor(DefaultRegistry)
}

// FastHTTPHandlerFor returns a fasthttp request handler for a custom registry
func FastHTTPHandlerFor(registry *prometheus.Registry) fasthttp.RequestHandler {
	adaptor := fasthttpadaptor.NewFastHTTPHandler(HandlerFor(registry))
	return func(ctx *fasthttp.RequestCtx) {
		adaptor(ctx)
	}
}
