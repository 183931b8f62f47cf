package prediction

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Status is the qualitative traffic level.
type Status string

const (
	Light    Status = "Light"
	Moderate Status = "Moderate"
	Heavy    Status = "Heavy"
)

const (
	// MinVolume is the smallest volume ever reported.
	MinVolume = 100
	// MaxJitter bounds the per-location offset applied to map data.
	MaxJitter = 50
	// fullDensityVolume is the volume at which density reaches 100.
	fullDensityVolume = 2000.0
	// maxVolume caps estimates before they are converted to int.
	maxVolume = 1 << 31
)

// Result is the user-facing view of a prediction.
type Result struct {
	Volume  int    `json:"traffic_volume"`
	Density int    `json:"traffic_density"`
	Status  Status `json:"status"`
}

// Jitter supplies the offset added to a volume before metrics are derived.
type Jitter interface {
	Offset() int
}

// NoJitter always returns 0.
type NoJitter struct{}

func (NoJitter) Offset() int { return 0 }

// RandomJitter draws uniform integers in [-MaxJitter, MaxJitter]. It is safe
// for concurrent use.
type RandomJitter struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomJitter creates a RandomJitter from seed.
func NewRandomJitter(seed uint64) *RandomJitter {
	return &RandomJitter{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (r *RandomJitter) Offset() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(2*MaxJitter+1) - MaxJitter
}

// DeriveMetrics truncates volume to whole cars, adds the jitter offset, clamps
// to [MinVolume, maxVolume] and computes density and status. A nil j means no
// jitter. NaN is treated as no traffic.
func DeriveMetrics(volume float64, j Jitter) Result {
	var v int
	if volume > 0 {
		v = int(min(volume, maxVolume))
	}
	if j != nil {
		v += j.Offset()
	}
	if v < MinVolume {
		v = MinVolume
	}
	if v > maxVolume {
		v = maxVolume
	}
	d := int(math.RoundToEven(float64(v) / fullDensityVolume * 100))
	if d > 100 {
		d = 100
	}
	return Result{Volume: v, Density: d, Status: statusFor(d)}
}

func statusFor(density int) Status {
	switch {
	case density > 75:
		return Heavy
	case density >= 50:
		return Moderate
	default:
		return Light
	}
}
