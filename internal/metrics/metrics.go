package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	JourneyTime  prometheus.Gauge
	VisitedCount prometheus.Gauge
	TrailPoints  prometheus.Gauge
	ClockRunning prometheus.Gauge
	WSClients    prometheus.Gauge
	APIRequests  *prometheus.CounterVec // endpoint label

	FramesPublished prometheus.Counter
	PublishErrs     prometheus.Counter
	PublishDuration prometheus.Histogram
	NATSConnected   prometheus.Gauge

	Speed        prometheus.Gauge
	TickInterval prometheus.Gauge // seconds
}

func NewCollector(speed float64, tickInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_ticks_total",
			Help: "Total playback ticks processed.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_tick_duration_seconds",
			Help:    "Duration of per-tick query and publish work.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
		JourneyTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_journey_time_ms",
			Help: "Current journey time in epoch milliseconds.",
		}),
		VisitedCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_visited_waypoints",
			Help: "Number of waypoints visited so far.",
		}),
		TrailPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_trail_points",
			Help: "Number of points in the current trail.",
		}),
		ClockRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_clock_running",
			Help: "1 if the playback clock is running, 0 otherwise.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_websocket_clients",
			Help: "Number of connected websocket clients.",
		}),
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracker_api_requests_total",
			Help: "API requests served.",
		}, []string{"endpoint"}),
		FramesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_frames_published_total",
			Help: "Total NATS frames published.",
		}),
		PublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tracker_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tracker_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS frame.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		Speed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_speed_multiplier",
			Help: "Journey seconds advanced per wall-clock second.",
		}),
		TickInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tracker_tick_interval_seconds",
			Help: "Tick interval in seconds.",
		}),
	}

	// Register
	reg.MustRegister(
		c.Ticks, c.TickDuration,
		c.JourneyTime, c.VisitedCount, c.TrailPoints, c.ClockRunning,
		c.WSClients, c.APIRequests,
		c.FramesPublished, c.PublishErrs, c.PublishDuration, c.NATSConnected,
		c.Speed, c.TickInterval,
	)

	c.Speed.Set(speed)
	c.TickInterval.Set(tickInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
