package pulse

import (
	"math"
	"time"
)

// Gate compatibility constants. Modular hardware expects a pulse at 0.8 of
// full scale lasting 10 ms; these are part of the external contract and are
// deliberately not configurable.
const (
	GateHighLevel = float32(0.8)
	GateLowLevel  = float32(0.0)
	GateDuration  = 10 * time.Millisecond
)

// GateFrames returns the pulse length in frames at the given sample rate.
func GateFrames(sampleRate float64) int {
	return int(math.Round(GateDuration.Seconds() * sampleRate))
}

// RenderGateBuffer synthesizes one gate pulse across channelCount output
// channels in channel-major layout (all frames of channel 0, then channel
// 1, ...). A channel index c carries HIGH when its 1-based number c+1 is in
// channels, LOW otherwise; channel numbers outside the negotiated range
// simply never match and are ignored.
func RenderGateBuffer(channels []int, sampleRate float64, channelCount int) ([]float32, int) {
	frames := GateFrames(sampleRate)
	if frames <= 0 || channelCount <= 0 {
		return nil, 0
	}

	active := make(map[int]bool, len(channels))
	for _, ch := range channels {
		active[ch] = true
	}

	samples := make([]float32, frames*channelCount)
	for c := 0; c < channelCount; c++ {
		if !active[c+1] {
			continue
		}
		base := c * frames
		for i := 0; i < frames; i++ {
			samples[base+i] = GateHighLevel
		}
	}

	return samples, frames
}
