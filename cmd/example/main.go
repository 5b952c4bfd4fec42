package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluxorio/hub/pkg/config"
	"github.com/fluxorio/hub/pkg/hub"
	"github.com/fluxorio/hub/pkg/inspector"
	"github.com/fluxorio/hub/pkg/observability/otel"
	promexp "github.com/fluxorio/hub/pkg/observability/prometheus"
)

// Page is the publisher in this demo.
type Page struct {
	Name string
}

// Banner listens for greetings and keeps the last one it saw.
type Banner struct {
	Last string
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadYAML(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Tracing.Enabled {
		err := otel.Initialize(ctx, otel.Config{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: cfg.Tracing.ServiceVersion,
			Exporter:       cfg.Tracing.Exporter,
			Endpoint:       cfg.Tracing.Endpoint,
			SampleRate:     cfg.Tracing.SampleRate,
		})
		if err != nil {
			log.Fatalf("init tracing: %v", err)
		}
		defer otel.Shutdown(context.Background())
	}

	logger := hub.NewLogger(hub.LoggerConfig{
		Level:      cfg.Logging.Level,
		JSONOutput: cfg.Logging.JSON,
	})
	h := hub.New(
		hub.WithLogger(logger),
		hub.WithMetrics(promexp.DefaultRegistry),
	)

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promexp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Printf("metrics server: %v", err)
			}
		}()
		log.Printf("metrics on %s%s", cfg.Metrics.Addr, cfg.Metrics.Path)
	}

	if cfg.Inspector.Enabled {
		ins := inspector.New(cfg.Inspector.Addr, h)
		if err := ins.Start(); err != nil {
			log.Fatalf("start inspector: %v", err)
		}
		defer ins.Stop(context.Background())
		log.Printf("inspector on %s/status", cfg.Inspector.Addr)
	}

	page := &Page{Name: "home"}
	banner := &Banner{}

	// A bound subscription: the handler receives the live subscriber, so the
	// hub keeps no strong reference and the banner stays collectible.
	err := hub.SubscribeBound(h, banner, "Greeting", func(b *Banner, p *Page, msg string) {
		b.Last = msg
		log.Printf("banner saw %q from page %s", msg, p.Name)
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	// A retained subscription: the closure captures its subscriber, so it is
	// declared with WithRetain and lives until Unsubscribe.
	audit := &Banner{}
	err = hub.Subscribe(h, audit, "Greeting", func(p *Page, msg string) {
		audit.Last = msg
	}, hub.WithRetain())
	if err != nil {
		log.Fatalf("subscribe audit: %v", err)
	}

	if err := otel.SendWithSpan(ctx, h, page, "Greeting", "hello"); err != nil {
		log.Fatalf("send: %v", err)
	}
	log.Printf("banner=%q audit=%q", banner.Last, audit.Last)

	if err := hub.Unsubscribe[Page, string](h, banner, "Greeting"); err != nil {
		log.Fatalf("unsubscribe: %v", err)
	}
	if err := hub.Send(h, page, "Greeting", "goodbye"); err != nil {
		log.Fatalf("send: %v", err)
	}
	log.Printf("after unsubscribe: banner=%q audit=%q", banner.Last, audit.Last)

	if !cfg.Metrics.Enabled && !cfg.Inspector.Enabled {
		return
	}

	log.Println("serving until interrupted")
	<-ctx.Done()
	// Give in-flight scrapes a moment to finish.
	time.Sleep(100 * time.Millisecond)
}
