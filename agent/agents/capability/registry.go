package capability

import (
	contractx "github.com/roamfit/roamfit/agent/contract"
	llmx "github.com/roamfit/roamfit/agent/llm"
	storex "github.com/roamfit/roamfit/agent/store"
)

// Registry wires one instance of every capability over shared
// infrastructure. It is the only constructor the dispatcher needs.
type Registry struct {
	detection  *Detection
	summary    *Summary
	generation *Generation
	stats      *Stats
	location   *Location
	management *Management
}

var _ contractx.Registry = (*Registry)(nil)

func NewRegistry(gateway llmx.Gateway, store storex.Store, geo Geocoder) *Registry {
	return &Registry{
		detection:  NewDetection(gateway, store),
		summary:    NewSummary(gateway, store),
		generation: NewGeneration(gateway, store),
		stats:      NewStats(store),
		location:   NewLocation(geo),
		management: NewManagement(store),
	}
}

func (r *Registry) Detection() contractx.Detector   { return r.detection }
func (r *Registry) Summary() contractx.Summarizer   { return r.summary }
func (r *Registry) Generation() contractx.Generator { return r.generation }
func (r *Registry) Stats() contractx.Statistician   { return r.stats }
func (r *Registry) Location() contractx.Locator     { return r.location }
func (r *Registry) Management() contractx.Manager   { return r.management }
