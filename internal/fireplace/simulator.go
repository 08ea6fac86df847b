package fireplace

import (
	"context"
	"sync"

	"github.com/hearthlink/hearth/internal/protocol"
)

// Simulator is an in-memory Controller for development and tests. It
// mirrors the real client's validation envelope but never touches the
// network.
type Simulator struct {
	mu sync.Mutex
	st protocol.State
}

// NewSimulator returns a simulator in the powered-off state with the pilot
// lit, matching a fireplace at rest.
func NewSimulator() *Simulator {
	return &Simulator{
		st: protocol.State{
			Power:      false,
			FlameLevel: 50,
			Burner2:    false,
			Pilot:      true,
			DeviceName: "Simulated Fireplace",
		},
	}
}

func (s *Simulator) Status(ctx context.Context) (protocol.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st, nil
}

func (s *Simulator) PowerOn(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Power = true
	return nil
}

func (s *Simulator) PowerOff(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Power = false
	return nil
}

func (s *Simulator) SetFlame(ctx context.Context, level int) error {
	if err := protocol.ValidateFlameLevel(level); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.FlameLevel = level
	return nil
}

func (s *Simulator) Burner2On(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Burner2 = true
	return nil
}

func (s *Simulator) Burner2Off(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Burner2 = false
	return nil
}
