package provider

import (
	"context"
	"fmt"
	"time"
)

// VisionFamily holds the interchangeable vision backends in fixed priority
// order (OpenAI, then Gemini, then Claude as wired by the caller). The first
// member with a credential handles every request; selection is never random.
type VisionFamily struct {
	adapters []VisionAdapter
}

// NewVisionFamily assembles the family; argument order is priority order.
func NewVisionFamily(adapters ...VisionAdapter) *VisionFamily {
	return &VisionFamily{adapters: adapters}
}

// Select returns the highest-priority adapter holding a credential.
func (f *VisionFamily) Select() (VisionAdapter, bool) {
	for _, a := range f.adapters {
		if a.HasCredential() {
			return a, true
		}
	}
	return nil, false
}

// Available reports whether any member can serve requests.
func (f *VisionFamily) Available() bool {
	_, ok := f.Select()
	return ok
}

// Timeout returns the selected member's inner timeout, or the family
// maximum when nothing is selected yet, so budget validation stays safe.
func (f *VisionFamily) Timeout() time.Duration {
	if a, ok := f.Select(); ok {
		return a.Timeout()
	}
	var max time.Duration
	for _, a := range f.adapters {
		if a.Timeout() > max {
			max = a.Timeout()
		}
	}
	return max
}

// Analyze delegates to the selected member.
func (f *VisionFamily) Analyze(ctx context.Context, in Input) (Output, error) {
	a, ok := f.Select()
	if !ok {
		return Output{}, &Error{
			Class:    CapabilityUnavailable,
			Provider: "vision",
			Err:      fmt.Errorf("no vision provider credential configured"),
		}
	}
	return a.Analyze(ctx, in)
}
