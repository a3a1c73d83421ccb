package fetcher

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Picker draws User-Agent strings uniformly from a fixed pool.
type Picker struct {
	agents []string
	intn   func(n int) int
}

// NewPicker copies agents into a new pool.
func NewPicker(agents []string) (*Picker, error) {
	pool := make([]string, 0, len(agents))
	for _, a := range agents {
		if a = strings.TrimSpace(a); a != "" {
			pool = append(pool, a)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("user agent pool is empty")
	}
	return &Picker{agents: pool, intn: rand.IntN}, nil
}

// Pick returns one agent from the pool.
func (p *Picker) Pick() string {
	return p.agents[p.intn(len(p.agents))]
}

// Agents returns a copy of the pool.
func (p *Picker) Agents() []string {
	return append([]string(nil), p.agents...)
}
