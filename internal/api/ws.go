package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/san-kum/fluidmind/internal/command"
	"github.com/san-kum/fluidmind/internal/simloop"
)

// upgrader accepts connections from any origin; fluidmind has no
// browser-facing deployment concerns of its own (spec.md explicitly
// excludes authentication).
var upgrader = websocket.Upgrader{
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// wsConn serializes writes to one connection: the event-forwarding
// goroutine and the command-ack replies both write to it.
type wsConn struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsConn) writeJSON(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(v)
}

// wsCommandFrame is the JSON shape a client sends to issue a command
// over the socket, matching the dispatcher's Kind tag (spec.md §4.3).
type wsCommandFrame struct {
	Command           string  `json:"command"`
	ConceptName       string  `json:"concept,omitempty"`
	Density           float64 `json:"density,omitempty"`
	Volume            float64 `json:"volume,omitempty"`
	ID                string  `json:"id,omitempty"`
	Delta             float64 `json:"delta,omitempty"`
	Strength          float64 `json:"strength,omitempty"`
	Name              string  `json:"name,omitempty"`
	HeatOutput        float64 `json:"heat_output,omitempty"`
	Depth             float64 `json:"depth,omitempty"`
	Radius            float64 `json:"radius,omitempty"`
	PressureThreshold float64 `json:"pressure_threshold,omitempty"`
	Dividend          int     `json:"dividend,omitempty"`
	Divisor           int     `json:"divisor,omitempty"`
	Salinity          float64 `json:"salinity,omitempty"`
}

func (f wsCommandFrame) toCommand() (command.Command, error) {
	switch command.Kind(f.Command) {
	case command.KindInject:
		return command.Command{Kind: command.KindInject, ConceptName: f.ConceptName, Density: f.Density, Volume: f.Volume}, nil
	case command.KindBallast:
		id, err := uuid.Parse(f.ID)
		if err != nil {
			return command.Command{}, err
		}
		return command.Command{Kind: command.KindBallast, ConceptID: id, Delta: f.Delta}, nil
	case command.KindModulateBuoyancy:
		id, err := uuid.Parse(f.ID)
		if err != nil {
			return command.Command{}, err
		}
		return command.Command{Kind: command.KindModulateBuoyancy, ConceptID: id, Delta: f.Delta}, nil
	case command.KindThaw:
		return command.Command{Kind: command.KindThaw}, nil
	case command.KindDeepBreath:
		return command.Command{Kind: command.KindDeepBreath, Strength: f.Strength}, nil
	case command.KindAddCoreTruth:
		return command.Command{Kind: command.KindAddCoreTruth, VentName: f.Name, HeatOutput: f.HeatOutput, Depth: f.Depth, Radius: f.Radius}, nil
	case command.KindTriggerContinent:
		return command.Command{Kind: command.KindTriggerContinent, PressureThreshold: f.PressureThreshold}, nil
	case command.KindStartDivision:
		return command.Command{Kind: command.KindStartDivision, Dividend: f.Dividend, Divisor: f.Divisor, SalinityBoost: f.Salinity}, nil
	default:
		return command.Command{}, command.ErrUnknownKind
	}
}

// wsAck is the reply frame for a dispatched command.
type wsAck struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	Error   string `json:"error,omitempty"`
}

// handleWS upgrades the connection, then runs two independent loops:
// one forwards broadcaster events to the client, the other reads
// command frames and dispatches them, replying with an ack or error.
// Grounded on crispcode-io-monster-mash's worldHub connection handling
// (mutex-guarded writer, blocking ReadMessage loop, JSON envelope).
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	raw, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade failed: %v", err)
		return
	}
	client := &wsConn{conn: raw}
	defer raw.Close()

	done := make(chan struct{})
	go s.forwardEvents(client, done)
	defer close(done)

	for {
		var frame wsCommandFrame
		if err := raw.ReadJSON(&frame); err != nil {
			return
		}
		cmd, err := frame.toCommand()
		if err != nil {
			_ = client.writeJSON(wsAck{Type: "error", Command: frame.Command, Error: err.Error()})
			continue
		}
		if _, err := s.loop.Submit(r.Context(), cmd); err != nil {
			_ = client.writeJSON(wsAck{Type: "error", Command: frame.Command, Error: err.Error()})
			continue
		}
		_ = client.writeJSON(wsAck{Type: "ack", Command: frame.Command})
	}
}

func (s *Server) forwardEvents(client *wsConn, done <-chan struct{}) {
	cursor := s.loop.Broadcaster().NewCursor()
	ticker := time.NewTicker(simloop.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}
		events, _ := cursor.Drain()
		for _, ev := range events {
			if err := client.writeJSON(ev); err != nil {
				return
			}
		}
	}
}
