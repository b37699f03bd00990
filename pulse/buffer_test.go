package pulse

import (
	"math"
	"testing"
)

func TestGateFramesRounding(t *testing.T) {
	cases := []struct {
		sampleRate float64
		want       int
	}{
		{48000, 480},
		{44100, 441},
		{96000, 960},
		{22050, 221}, // 220.5 rounds up
		{0, 0},
	}

	for _, tc := range cases {
		if got := GateFrames(tc.sampleRate); got != tc.want {
			t.Errorf("GateFrames(%.0f) = %d, want %d", tc.sampleRate, got, tc.want)
		}
	}
}

func TestRenderGateBufferLevels(t *testing.T) {
	channels := []int{1, 3, 5}
	const channelCount = 8
	const sampleRate = 48000.0

	samples, frames := RenderGateBuffer(channels, sampleRate, channelCount)

	wantFrames := int(math.Round(0.010 * sampleRate))
	if frames != wantFrames {
		t.Fatalf("frames = %d, want %d", frames, wantFrames)
	}
	if len(samples) != frames*channelCount {
		t.Fatalf("len(samples) = %d, want %d", len(samples), frames*channelCount)
	}

	high := map[int]bool{0: true, 2: true, 4: true}
	for c := 0; c < channelCount; c++ {
		want := GateLowLevel
		if high[c] {
			want = GateHighLevel
		}
		for i := 0; i < frames; i++ {
			if got := samples[c*frames+i]; got != want {
				t.Fatalf("channel %d frame %d = %v, want %v", c, i, got, want)
			}
		}
	}
}

func TestRenderGateBufferIgnoresOutOfRangeChannels(t *testing.T) {
	// Channels 0, 9 and -3 can never match a 1-based channel number within
	// a 4-channel format; the result must be all LOW without error.
	samples, frames := RenderGateBuffer([]int{0, 9, -3}, 48000, 4)
	if frames == 0 {
		t.Fatal("expected a synthesized buffer")
	}
	for i, sample := range samples {
		if sample != GateLowLevel {
			t.Fatalf("sample %d = %v, want silence", i, sample)
		}
	}
}

func TestRenderGateBufferAllChannels(t *testing.T) {
	samples, frames := RenderGateBuffer([]int{1, 2}, 44100, 2)
	if frames != 441 {
		t.Fatalf("frames = %d, want 441", frames)
	}
	for i, sample := range samples {
		if sample != GateHighLevel {
			t.Fatalf("sample %d = %v, want %v", i, sample, GateHighLevel)
		}
	}
}

func TestRenderGateBufferDegenerateFormats(t *testing.T) {
	if samples, frames := RenderGateBuffer([]int{1}, 0, 2); frames != 0 || samples != nil {
		t.Errorf("zero sample rate yielded %d frames", frames)
	}
	if samples, frames := RenderGateBuffer([]int{1}, 48000, 0); frames != 0 || samples != nil {
		t.Errorf("zero channel count yielded %d frames", frames)
	}
}
