package engine

import (
	"math"

	"github.com/okivie/lifewheel/internal/sphere"
)

// Tilt describes which side of the personal/social scale is heavier.
type Tilt string

const (
	TiltBalanced Tilt = "balanced"
	TiltPersonal Tilt = "personal"
	TiltSocial   Tilt = "social"
)

// Balance is the cross-sphere reduction of the 8 sphere indices.
type Balance struct {
	LifeIndex        int  `json:"life_index"`
	PersonalEnergy   int  `json:"personal_energy"`
	ExternalSuccess  int  `json:"external_success"`
	MindfulnessLevel int  `json:"mindfulness_level"`
	Skew             int  `json:"skew"`
	Tilt             Tilt `json:"tilt"`
}

// MindfulnessFunc scores a mindfulness level from the sphere indices.
// Implementations must be pure and return a value in [0,100].
type MindfulnessFunc func(indices map[string]float64) float64

// Aggregator reduces the 8 sphere indices into a Balance. It performs
// no I/O and is deterministic over its inputs.
type Aggregator struct {
	// Deadband is the |skew| below which the scale reads balanced,
	// absorbing jitter on near-equal inputs.
	Deadband int

	// Mindfulness is pluggable; nil selects EvennessMindfulness.
	Mindfulness MindfulnessFunc
}

// NewAggregator returns an Aggregator with the given deadband.
func NewAggregator(deadband int) *Aggregator {
	return &Aggregator{Deadband: deadband, Mindfulness: EvennessMindfulness}
}

// Aggregate computes the overall balance from a sphereKey→index map.
// Missing keys count as zero. The reduction is order-independent:
// group membership comes from the sphere catalog, not map iteration.
func (a *Aggregator) Aggregate(indices map[string]float64) Balance {
	personal := groupMean(indices, sphere.Personal())
	social := groupMean(indices, sphere.Social())

	total := 0.0
	for _, s := range sphere.List() {
		total += clamp(indices[s.Key], 0, 100)
	}
	life := total / 8

	skew := roundIdx(personal) - roundIdx(social)
	tilt := TiltBalanced
	switch {
	case skew > a.Deadband:
		tilt = TiltPersonal
	case skew < -a.Deadband:
		tilt = TiltSocial
	}

	mindfulness := a.Mindfulness
	if mindfulness == nil {
		mindfulness = EvennessMindfulness
	}

	return Balance{
		LifeIndex:        roundIdx(life),
		PersonalEnergy:   roundIdx(personal),
		ExternalSuccess:  roundIdx(social),
		MindfulnessLevel: roundIdx(clamp(mindfulness(indices), 0, 100)),
		Skew:             skew,
		Tilt:             tilt,
	}
}

// EvennessMindfulness is the default mindfulness scorer: the mean
// sphere index discounted by how unevenly activity spreads across
// spheres. A life with the same moderate score everywhere reads as
// more mindful than the same total concentrated in one sphere.
func EvennessMindfulness(indices map[string]float64) float64 {
	all := sphere.List()
	mean := 0.0
	for _, s := range all {
		mean += clamp(indices[s.Key], 0, 100)
	}
	mean /= float64(len(all))

	mad := 0.0
	for _, s := range all {
		mad += math.Abs(clamp(indices[s.Key], 0, 100) - mean)
	}
	mad /= float64(len(all))

	return clamp(mean-mad/2, 0, 100)
}

func groupMean(indices map[string]float64, group []sphere.Sphere) float64 {
	sum := 0.0
	for _, s := range group {
		sum += clamp(indices[s.Key], 0, 100)
	}
	return sum / float64(len(group))
}

func roundIdx(v float64) int {
	return int(math.Round(clamp(v, 0, 100)))
}
