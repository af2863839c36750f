package publisher

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/haruki-inoue-314/santa-viewer/internal/journey"
)

type NATSPublisher struct {
	nc          *nats.Conn
	base        string
	logSubjects bool
	metrics     PublisherMetrics
}

type PublisherMetrics interface {
	FramePublishedInc()
	PublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url, subjectBase string, logSubjects bool, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("journey-tracker"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, base: subjectToken(subjectBase), logSubjects: logSubjects, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

// Frame is one published snapshot of the journey: where the traveller
// is, how far along it is, and which stop comes next.
type Frame struct {
	Timestamp   time.Time          `json:"timestamp"`
	JourneyTime int64              `json:"journeyTime"`
	Position    journey.Coordinate `json:"position"`
	Bearing     float64            `json:"bearing"`
	SpeedMps    float64            `json:"speedMps"`
	Visited     int                `json:"visited"`
	TrailPoints int                `json:"trailPoints"`
	LastStop    string             `json:"lastStop,omitempty"`
	NextStop    string             `json:"nextStop,omitempty"`
	Running     bool               `json:"running"`
}

// PublishFrame publishes a frame on <base>.<lastStop> (or <base>._
// before the first stop is reached).
func (p *NATSPublisher) PublishFrame(f Frame) error {
	subject := fmt.Sprintf("%s.%s", p.base, subjectToken(f.LastStop))
	b, err := json.Marshal(f)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.PublishErrInc()
		} else {
			p.metrics.FramePublishedInc()
		}
	}
	return err
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
