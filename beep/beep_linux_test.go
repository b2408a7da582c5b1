//go:build linux

package beep

import "testing"

func TestGenerateTickStereo(t *testing.T) {
	samples := generateTick(sampleRate, navFreq, 0.2, navVolume, navDecay)
	if want := int(float64(sampleRate)*0.2) * 2; len(samples) != want {
		t.Fatalf("got %d samples, want %d", len(samples), want)
	}
	for i := 0; i < len(samples); i += 2 {
		if samples[i] != samples[i+1] {
			t.Fatalf("channels differ at frame %d", i/2)
		}
	}
}

func TestGenerateTickDecays(t *testing.T) {
	samples := generateTick(sampleRate, typingFreq, 0.2, typingVolume, typingDecay)
	peak := func(from, to int) int16 {
		var m int16
		for _, s := range samples[from:to] {
			if s < 0 {
				s = -s
			}
			if s > m {
				m = s
			}
		}
		return m
	}
	n := len(samples)
	if head, tail := peak(0, n/10), peak(n-n/10, n); tail >= head {
		t.Errorf("tail peak %d not below head peak %d", tail, head)
	}
}

func TestDisabledIsSilent(t *testing.T) {
	disabled = true
	t.Cleanup(func() { disabled = false })
	PlayNavigation() // must not touch pulse
	PlayTyping()
}
