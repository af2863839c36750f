package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/haruki-inoue-314/santa-viewer/internal/config"
	"github.com/haruki-inoue-314/santa-viewer/internal/geo"
	"github.com/haruki-inoue-314/santa-viewer/internal/interp"
	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
	"github.com/haruki-inoue-314/santa-viewer/internal/loader"
	"github.com/haruki-inoue-314/santa-viewer/internal/metrics"
	"github.com/haruki-inoue-314/santa-viewer/internal/playback"
	"github.com/haruki-inoue-314/santa-viewer/internal/publisher"
	"github.com/haruki-inoue-314/santa-viewer/internal/server"
)

func main() {
	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	route := loadRoute(ctx, cfg)
	log.Printf("loaded route with %d waypoints (%s .. %s)",
		len(route),
		route[0].ArrivalTime().Format(time.RFC3339),
		route[len(route)-1].ArrivalTime().Format(time.RFC3339))

	// Metrics setup
	var mcol *metrics.Collector
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector(cfg.Speed, cfg.TickInterval)
		srv := mcol.Serve(cfg.MetricsAddr)
		defer shutdown(srv)
	}

	// NATS publisher for per-tick frames
	pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.SubjectBase, cfg.LogSubjects, wrapPublisherMetrics(mcol))
	if err != nil {
		log.Fatalf("nats error: %v", err)
	}
	defer pub.Close()

	// Playback clock over the route's time span
	clock := playback.NewClock(route.Start(), route.End(), cfg.Speed)
	if cfg.StartAt > 0 {
		clock.Seek(cfg.StartAt)
	}
	if cfg.Autoplay {
		clock.Start()
	}

	// API + websocket server
	api := server.New(route, clock, mcol)
	apiSrv := api.Serve(cfg.HTTPAddr)
	defer shutdown(apiSrv)

	runTicker(ctx, cfg.TickInterval, route, clock, pub, api, mcol)
	log.Println("shutdown complete")
}

func loadRoute(ctx context.Context, cfg *config.Config) journey.Route {
	if cfg.RouteID != "" {
		db, err := loader.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		defer db.Close()
		if err := loader.Ping(ctx, db); err != nil {
			log.Fatalf("db ping error: %v", err)
		}
		route, err := loader.FetchRoute(ctx, db, cfg.RouteID)
		if err != nil {
			log.Fatalf("fetch route %q: %v", cfg.RouteID, err)
		}
		return route
	}
	route, err := loader.LoadFile(cfg.RouteFile)
	if err != nil {
		log.Fatalf("load route file %q: %v", cfg.RouteFile, err)
	}
	return route
}

// runTicker drives playback: once per tick it reads the clock, runs the
// three queries against the route, and hands the resulting frame to the
// NATS publisher and the websocket clients. It returns when ctx is
// cancelled.
func runTicker(ctx context.Context, interval time.Duration, route journey.Route, clock *playback.Clock, pub *publisher.NATSPublisher, api *server.Server, mcol *metrics.Collector) {
	tick := time.NewTicker(interval)
	defer tick.Stop()

	lastWall := time.Time{}
	var lastPos journey.Coordinate
	havePos := false

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			tickStart := time.Now()
			t := clock.Now()
			pos := interp.PositionAt(route, t)
			visited := interp.VisitedAt(route, t)
			trail := interp.TrailAt(route, t)

			// estimate bearing and ground speed from the previous tick
			bearing, speed := 0.0, 0.0
			if havePos {
				if d := geo.Distance(lastPos, pos); d > 0 {
					bearing = geo.Bearing(lastPos, pos)
					if dt := now.Sub(lastWall).Seconds(); dt > 0 {
						speed = d / dt
					}
				}
			}
			lastWall, lastPos, havePos = now, pos, true

			f := publisher.Frame{
				Timestamp:   now,
				JourneyTime: t,
				Position:    pos,
				Bearing:     bearing,
				SpeedMps:    speed,
				Visited:     len(visited),
				TrailPoints: len(trail),
				Running:     clock.Running(),
			}
			if len(visited) > 0 {
				f.LastStop = visited[len(visited)-1].ID
			}
			if len(visited) < len(route) {
				f.NextStop = route[len(visited)].ID
			}

			if err := pub.PublishFrame(f); err != nil {
				log.Printf("publish error: %v", err)
			}
			api.Broadcast(f)

			if mcol != nil {
				mcol.Ticks.Inc()
				mcol.JourneyTime.Set(float64(t))
				mcol.VisitedCount.Set(float64(len(visited)))
				mcol.TrailPoints.Set(float64(len(trail)))
				if clock.Running() {
					mcol.ClockRunning.Set(1)
				} else {
					mcol.ClockRunning.Set(0)
				}
				mcol.TickDuration.Observe(time.Since(tickStart).Seconds())
			}
		}
	}
}

func shutdown(srv interface {
	Shutdown(ctx context.Context) error
}) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) FramePublishedInc()             { p.c.FramesPublished.Inc() }
func (p *pubMetrics) PublishErrInc()                 { p.c.PublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
