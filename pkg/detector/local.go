package detector

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"EstimAgent/internal/entity"
	"github.com/gorilla/websocket"
	"golang.org/x/net/context"
)

// ILocalDetector is the in-house model served over a WebSocket connection.
// Unavailability is an expected condition: analysis falls back to the hosted
// detector alone and reconciliation degenerates to a passthrough.
type ILocalDetector interface {
	Detector
	AnalyzeFrame(frame []byte) ([]entity.Detection, error)
	IsConnected() bool
	Reconnect() error
	Close()
}

type localDetector struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	pingInterval time.Duration
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewLocalDetector dials the local model service in the background so a slow
// or absent service never blocks startup.
func NewLocalDetector() ILocalDetector {
	client := &localDetector{
		pingInterval: 30 * time.Second,
		readTimeout:  30 * time.Second,
		writeTimeout: 5 * time.Second,
	}

	go func() {
		if err := client.Reconnect(); err != nil {
			log.Printf("Initial connection to local detector failed: %v. Will retry on demand.", err)
		} else {
			log.Printf("Successfully connected to local detector service")
		}
	}()

	return client
}

func (c *localDetector) Source() entity.Source {
	return entity.SourceSecondary
}

func (c *localDetector) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

func (c *localDetector) Reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	url := os.Getenv("LOCAL_DETECTOR_WS_URL")
	if url == "" {
		return fmt.Errorf("LOCAL_DETECTOR_WS_URL not configured")
	}

	log.Printf("Connecting to local detector at %s", url)

	dialer := websocket.DefaultDialer
	dialer.HandshakeTimeout = 10 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", url, err)
	}

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			log.Printf("Error sending pong: %v", err)
		}
		return nil
	})

	c.conn = conn
	go c.keepAlive()

	return nil
}

func (c *localDetector) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *localDetector) keepAlive() {
	ticker := time.NewTicker(c.pingInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		conn := c.conn
		if conn == nil {
			c.mu.Unlock()
			return
		}

		err := conn.WriteControl(
			websocket.PingMessage,
			[]byte{},
			time.Now().Add(c.writeTimeout),
		)
		if err != nil {
			log.Printf("Ping to local detector failed, marking connection as dead: %v", err)
			c.conn = nil
			conn.Close()
			c.mu.Unlock()
			return
		}

		c.mu.Unlock()
	}
}

// AnalyzeFrame sends one binary image frame to the local model and reads
// back its prediction list.
func (c *localDetector) AnalyzeFrame(frame []byte) ([]entity.Detection, error) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()

	if conn == nil {
		if err := c.Reconnect(); err != nil {
			return nil, fmt.Errorf("cannot connect to local detector service: %w", err)
		}
		c.mu.Lock()
		conn = c.conn
		c.mu.Unlock()
		if conn == nil {
			return nil, fmt.Errorf("local detector connection unavailable")
		}
	}

	c.mu.Lock()

	conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error sending frame to local detector: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(c.readTimeout))
	c.mu.Unlock()

	_, message, err := conn.ReadMessage()
	if err != nil {
		c.mu.Lock()
		c.conn = nil
		conn.Close()
		c.mu.Unlock()
		return nil, fmt.Errorf("error reading local detector response: %w", err)
	}

	var parsed rawResponse
	if err := json.Unmarshal(message, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse local detector response: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("local detector error: %s", parsed.Error)
	}

	return normalize(parsed.Predictions, entity.SourceSecondary, nil), nil
}

// Detect adapts the frame protocol to the Detector interface. The local
// model runs all of its classes in one pass, so type filtering happens on
// the normalized output.
func (c *localDetector) Detect(ctx context.Context, image []byte, opts Options) ([]entity.Detection, error) {
	type result struct {
		detections []entity.Detection
		err        error
	}

	ch := make(chan result, 1)
	go func() {
		detections, err := c.AnalyzeFrame(image)
		ch <- result{detections: detections, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return nil, res.err
		}
		return filterByType(res.detections, opts), nil
	}
}

func filterByType(detections []entity.Detection, opts Options) []entity.Detection {
	if len(opts.Types) == 0 {
		return detections
	}

	out := make([]entity.Detection, 0, len(detections))
	for _, d := range detections {
		var t DetectionType
		switch d.Category {
		case entity.CategoryRoom:
			t = RoomDetection
		case entity.CategoryWall:
			t = WallDetection
		case entity.CategoryOpening:
			t = OpeningDetection
		default:
			continue
		}

		if wantsType(opts, t) {
			out = append(out, d)
		}
	}

	return out
}
