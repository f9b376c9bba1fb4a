package controls

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/darkenness/airnet/pkg/model"
)

// TestAcyclicInvariant hammers the synchronizer with arbitrary wiring
// attempts and checks the live graph stays a DAG throughout.
func TestAcyclicInvariant(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("no wiring sequence produces a cycle", prop.ForAll(
		func(attempts []int) bool {
			rec := model.ControlSystem{}
			for i := 1; i <= 3; i++ {
				rec.Sensors = append(rec.Sensors, model.Sensor{ID: i, Type: "pressure", TargetID: i})
				rec.Controllers = append(rec.Controllers, model.Controller{ID: i, Setpoint: 1})
				rec.Actuators = append(rec.Actuators, model.Actuator{ID: i, Type: "damper"})
			}
			s := New(rec, WithScheduler(noopScheduler{}))

			ids := []string{
				SensorNodeID(1), SensorNodeID(2), SensorNodeID(3),
				ControllerNodeID(1), ControllerNodeID(2), ControllerNodeID(3),
				ActuatorNodeID(1), ActuatorNodeID(2), ActuatorNodeID(3),
			}
			for i := 0; i+1 < len(attempts); i += 2 {
				from := ids[abs(attempts[i])%len(ids)]
				to := ids[abs(attempts[i+1])%len(ids)]
				_ = s.Connect(from, to) // rejections are expected
			}

			g := s.Graph()
			for _, a := range g.Nodes {
				for _, b := range g.Nodes {
					if a.ID == b.ID {
						continue
					}
					if g.PathExists(a.ID, b.ID) && g.PathExists(b.ID, a.ID) {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1000)),
	))

	properties.TestingRun(t)
}

type noopScheduler struct{}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func (noopScheduler) AfterFunc(time.Duration, func()) Timer { return noopTimer{} }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
