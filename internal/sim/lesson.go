package sim

import (
	"context"
	"fmt"

	"github.com/hydroeco/hydrosim/internal/config"
	"github.com/hydroeco/hydrosim/internal/remediation"
)

// Apply executes one lesson action against the simulation. Step actions use
// the supplied dt.
func (s *Simulation) Apply(ctx context.Context, a config.LessonAction, dt float64) error {
	switch a.Type {
	case "reset":
		return s.Reset()
	case "inject":
		if a.Nutrient != 0 {
			s.InjectNutrientCenter(a.Nutrient)
		}
		if a.Pollutant != 0 {
			s.InjectPollutantCenter(a.Pollutant)
		}
		return nil
	case "heatwave":
		if a.Activate {
			s.ActivateHeatwave(a.Intensity)
		} else {
			s.DeactivateHeatwave()
		}
		return nil
	case "remediate":
		_, err := s.Deploy(a.X, a.Y, a.Radius, remediation.Type(a.Intervention), a.Effort)
		return err
	case "step":
		if a.Steps <= 0 {
			return fmt.Errorf("sim: step action needs a positive step count, got %d", a.Steps)
		}
		if dt <= 0 {
			return fmt.Errorf("sim: dt must be positive, got %f", dt)
		}
		// Step directly rather than through Run so metrics keep accumulating
		// across a lesson's multiple step actions.
		for i := 0; i < a.Steps; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			s.Step(dt)
		}
		return nil
	default:
		return fmt.Errorf("sim: unknown lesson action %q", a.Type)
	}
}

// RunLesson replays a lesson script and returns every snapshot its step
// actions produced. The simulation must have been built from the lesson's
// profile; mismatches are rejected up front.
func (s *Simulation) RunLesson(ctx context.Context, lesson *config.Lesson, dt float64) ([]Snapshot, error) {
	if lesson == nil {
		return nil, fmt.Errorf("sim: nil lesson")
	}
	if lesson.Profile != s.profile.ID {
		return nil, fmt.Errorf("sim: lesson %s targets profile %s, simulation uses %s",
			lesson.ID, lesson.Profile, s.profile.ID)
	}

	collector := &snapshotCollector{}
	s.AddObserver(collector)
	defer s.removeObserver(collector)

	for i, a := range lesson.Actions {
		if err := s.Apply(ctx, a, dt); err != nil {
			return collector.snaps, fmt.Errorf("sim: lesson %s action %d: %w", lesson.ID, i, err)
		}
	}
	return collector.snaps, nil
}

type snapshotCollector struct {
	snaps []Snapshot
}

func (c *snapshotCollector) OnStep(snap Snapshot) { c.snaps = append(c.snaps, snap) }

func (s *Simulation) removeObserver(target Observer) {
	for i, o := range s.observers {
		if o == target {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}
