package controls

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/darkenness/airnet/pkg/model"
)

// Connection validation failures.
var (
	ErrSelfLoop    = errors.New("connection would form a self-loop")
	ErrWouldCycle  = errors.New("connection would form a cycle")
	ErrUnknownNode = errors.New("unknown graph node")
)

// DefaultDebounce is the write-back coalescing window.
const DefaultDebounce = 300 * time.Millisecond

// direction is the synchronizer's projection state. Projections must
// never trigger each other, so at most one direction is active and the
// opposite write-back is held off for one tick after a record
// projection.
type direction int

const (
	dirIdle direction = iota
	dirRecordToGraph
	dirGraphToRecord
)

// Timer is a cancelable scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler defers work; tests substitute a manual implementation to
// drive ticks deterministically.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Synchronizer keeps the live control-wiring graph and the canonical
// control-system record consistent. Record-to-graph projection is
// deterministic and immediate; graph-to-record write-back is debounced,
// change-detected, and suppressed for one tick after a record
// projection so the two directions never feed back into each other.
type Synchronizer struct {
	mu       sync.Mutex
	log      *zap.Logger
	sched    Scheduler
	debounce time.Duration

	record model.ControlSystem
	graph  Graph

	projecting direction
	holdoff    bool
	pending    Timer
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Synchronizer) { s.log = log }
}

// WithScheduler replaces the deferred-work scheduler.
func WithScheduler(sched Scheduler) Option {
	return func(s *Synchronizer) { s.sched = sched }
}

// WithDebounce sets the write-back coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(s *Synchronizer) { s.debounce = d }
}

// New creates a synchronizer seeded from the canonical record.
func New(record model.ControlSystem, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		log:      zap.NewNop(),
		sched:    realScheduler{},
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mu.Lock()
	s.applyRecord(record)
	s.mu.Unlock()
	return s
}

// SetRecord replaces the canonical record and reprojects the live
// graph from it. Any pending write-back is canceled, and the next
// write-back tick is suppressed so the projection cannot echo.
func (s *Synchronizer) SetRecord(record model.ControlSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.applyRecord(record)
	s.holdoff = true
	s.sched.AfterFunc(s.debounce, s.clearHoldoff)
}

func (s *Synchronizer) clearHoldoff() {
	s.mu.Lock()
	s.holdoff = false
	s.mu.Unlock()
}

// applyRecord is the record-to-graph projection. Caller holds the lock.
func (s *Synchronizer) applyRecord(record model.ControlSystem) {
	if s.projecting != dirIdle {
		s.log.Warn("projection reentry suppressed",
			zap.Int("state", int(s.projecting)))
		return
	}
	s.projecting = dirRecordToGraph
	defer func() { s.projecting = dirIdle }()

	s.record = record
	g := Graph{}

	sensors := make(map[int]bool, len(record.Sensors))
	for _, sn := range record.Sensors {
		sensors[sn.ID] = true
		g.Nodes = append(g.Nodes, Node{
			ID: SensorNodeID(sn.ID), Kind: KindSensor, Ref: sn.ID, X: sn.X, Y: sn.Y,
		})
	}
	actuators := make(map[int]bool, len(record.Actuators))
	for _, a := range record.Actuators {
		actuators[a.ID] = true
		g.Nodes = append(g.Nodes, Node{
			ID: ActuatorNodeID(a.ID), Kind: KindActuator, Ref: a.ID, X: a.X, Y: a.Y,
		})
	}
	for _, c := range record.Controllers {
		g.Nodes = append(g.Nodes, Node{
			ID: ControllerNodeID(c.ID), Kind: KindController, Ref: c.ID, X: c.X, Y: c.Y,
		})
		if sensors[c.SensorID] {
			g.Edges = append(g.Edges, Edge{
				From: SensorNodeID(c.SensorID), To: ControllerNodeID(c.ID),
			})
		}
		if c.ActuatorID > 0 && actuators[c.ActuatorID] {
			g.Edges = append(g.Edges, Edge{
				From: ControllerNodeID(c.ID), To: ActuatorNodeID(c.ActuatorID),
			})
		}
	}

	s.graph = g
}

// Graph returns a copy of the live graph.
func (s *Synchronizer) Graph() Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.clone()
}

// Record returns the current canonical record.
func (s *Synchronizer) Record() model.ControlSystem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

// ValidateConnection checks a proposed wire without admitting it.
// Self-loops are rejected outright; a wire whose target can already
// reach its source would close a cycle and is rejected, keeping the
// graph a DAG by construction.
func (s *Synchronizer) ValidateConnection(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateConnection(from, to)
}

func (s *Synchronizer) validateConnection(from, to string) error {
	if from == to {
		return ErrSelfLoop
	}
	if s.graph.FindNode(from) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, from)
	}
	if s.graph.FindNode(to) == nil {
		return fmt.Errorf("%w: %s", ErrUnknownNode, to)
	}
	if s.graph.PathExists(to, from) {
		return ErrWouldCycle
	}
	return nil
}

// Connect admits a validated wire into the live graph and schedules a
// write-back.
func (s *Synchronizer) Connect(from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateConnection(from, to); err != nil {
		return err
	}
	if !s.graph.HasEdge(from, to) {
		s.graph.Edges = append(s.graph.Edges, Edge{From: from, To: to})
		s.scheduleCommit()
	}
	return nil
}

// Disconnect removes a wire if present and schedules a write-back.
func (s *Synchronizer) Disconnect(from, to string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.graph.Edges {
		if e.From == from && e.To == to {
			s.graph.Edges = append(s.graph.Edges[:i], s.graph.Edges[i+1:]...)
			s.scheduleCommit()
			return
		}
	}
}

// MoveNode updates a node's canvas position and schedules a write-back.
func (s *Synchronizer) MoveNode(id string, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.graph.FindNode(id)
	if n == nil {
		return false
	}
	n.X, n.Y = x, y
	s.scheduleCommit()
	return true
}

// scheduleCommit coalesces write-backs: a new mutation inside the
// debounce window cancels and replaces the pending one. Caller holds
// the lock.
func (s *Synchronizer) scheduleCommit() {
	if s.pending != nil {
		s.pending.Stop()
	}
	s.pending = s.sched.AfterFunc(s.debounce, s.commit)
}

func (s *Synchronizer) commit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.commitLocked()
}

// Flush forces any pending write-back through immediately.
func (s *Synchronizer) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.commitLocked()
}

// commitLocked is the graph-to-record projection. It only touches the
// record when the derived wiring or a stored position actually
// changed; an unconditional write would re-trigger the record watcher
// and churn forever.
func (s *Synchronizer) commitLocked() {
	if s.holdoff {
		s.holdoff = false
		s.log.Debug("write-back suppressed after record projection")
		return
	}
	if s.projecting != dirIdle {
		s.log.Warn("projection reentry suppressed",
			zap.Int("state", int(s.projecting)))
		return
	}
	s.projecting = dirGraphToRecord
	defer func() { s.projecting = dirIdle }()

	next := s.deriveRecord()
	if recordsEqual(s.record, next) {
		return
	}
	s.record = next
	s.log.Debug("control record updated from graph",
		zap.Int("sensors", len(next.Sensors)),
		zap.Int("controllers", len(next.Controllers)),
		zap.Int("actuators", len(next.Actuators)))
}

// deriveRecord builds the record implied by the live graph: for each
// controller, the incoming sensor wire and outgoing actuator wire
// become its sensorId and actuatorId, and node positions overwrite the
// stored coordinates.
func (s *Synchronizer) deriveRecord() model.ControlSystem {
	next := model.ControlSystem{
		Sensors:     append([]model.Sensor(nil), s.record.Sensors...),
		Controllers: append([]model.Controller(nil), s.record.Controllers...),
		Actuators:   append([]model.Actuator(nil), s.record.Actuators...),
	}

	for i := range next.Sensors {
		if n := s.graph.FindNode(SensorNodeID(next.Sensors[i].ID)); n != nil {
			next.Sensors[i].X, next.Sensors[i].Y = n.X, n.Y
		}
	}
	for i := range next.Actuators {
		if n := s.graph.FindNode(ActuatorNodeID(next.Actuators[i].ID)); n != nil {
			next.Actuators[i].X, next.Actuators[i].Y = n.X, n.Y
		}
	}
	for i := range next.Controllers {
		ctl := &next.Controllers[i]
		nodeID := ControllerNodeID(ctl.ID)
		if n := s.graph.FindNode(nodeID); n != nil {
			ctl.X, ctl.Y = n.X, n.Y
		}

		ctl.SensorID = 0
		ctl.ActuatorID = 0
		for _, e := range s.graph.Edges {
			if e.To == nodeID {
				if from := s.graph.FindNode(e.From); from != nil && from.Kind == KindSensor {
					ctl.SensorID = from.Ref
				}
			}
			if e.From == nodeID {
				if to := s.graph.FindNode(e.To); to != nil && to.Kind == KindActuator {
					ctl.ActuatorID = to.Ref
				}
			}
		}
	}

	return next
}

func recordsEqual(a, b model.ControlSystem) bool {
	if len(a.Sensors) != len(b.Sensors) ||
		len(a.Controllers) != len(b.Controllers) ||
		len(a.Actuators) != len(b.Actuators) {
		return false
	}
	for i := range a.Sensors {
		if a.Sensors[i] != b.Sensors[i] {
			return false
		}
	}
	for i := range a.Controllers {
		if a.Controllers[i] != b.Controllers[i] {
			return false
		}
	}
	for i := range a.Actuators {
		if a.Actuators[i] != b.Actuators[i] {
			return false
		}
	}
	return true
}
