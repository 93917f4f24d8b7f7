// Package rules resolves per-pair clearances from net classes.
package rules

import (
	"cmp"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"pcb-router/internal/item"
)

// DefaultClassName names the class used for unassigned nets.
const DefaultClassName = "Default"

// NetClass holds the routing dimensions shared by a group of nets.
type NetClass struct {
	Name        string `json:"name" toml:"name" yaml:"name"`
	Clearance   int    `json:"clearance" toml:"clearance" yaml:"clearance"`
	TrackWidth  int    `json:"track_width" toml:"track_width" yaml:"track_width"`
	ViaDiameter int    `json:"via_diameter" toml:"via_diameter" yaml:"via_diameter"`
	ViaDrill    int    `json:"via_drill" toml:"via_drill" yaml:"via_drill"`
}

// DefaultNetClass returns the fallback dimensions in internal units.
func DefaultNetClass() NetClass {
	return NetClass{
		Name:        DefaultClassName,
		Clearance:   200,
		TrackWidth:  250,
		ViaDiameter: 600,
		ViaDrill:    300,
	}
}

// Rules maps nets to classes. A nil *Rules resolves every clearance to 0.
type Rules struct {
	def     NetClass
	classes map[string]NetClass
	nets    map[int]string
}

// New creates rules with def as the fallback class.
func New(def NetClass) *Rules {
	if def.Name == "" {
		def.Name = DefaultClassName
	}
	return &Rules{
		def:     def,
		classes: map[string]NetClass{def.Name: def},
		nets:    make(map[int]string),
	}
}

// AddClass registers or replaces a class.
func (r *Rules) AddClass(c NetClass) {
	r.classes[c.Name] = c
	if c.Name == r.def.Name {
		r.def = c
	}
}

// AssignNet puts net into the named class.
func (r *Rules) AssignNet(net int, class string) error {
	if _, ok := r.classes[class]; !ok {
		return fmt.Errorf("assign net %d: unknown net class %q", net, class)
	}
	if item.IsOrphaned(net) {
		return fmt.Errorf("assign net %d: not a real net", net)
	}
	r.nets[net] = class
	return nil
}

// Default returns the fallback class.
func (r *Rules) Default() NetClass { return r.def }

// Classes returns every registered class sorted by name.
func (r *Rules) Classes() []NetClass {
	out := lo.Values(r.classes)
	slices.SortFunc(out, func(a, b NetClass) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// ClassFor returns the class of net. Orphaned and unassigned nets use the default.
func (r *Rules) ClassFor(net int) NetClass {
	if name, ok := r.nets[item.NormalizeNet(net)]; ok {
		return r.classes[name]
	}
	return r.def
}

// Clearance returns the larger class clearance of the two items.
func (r *Rules) Clearance(a, b item.Item) int {
	if r == nil || a == nil || b == nil {
		return 0
	}
	c := max(r.ClassFor(a.Net()).Clearance, r.ClassFor(b.Net()).Clearance)
	return max(c, 0)
}

// MaxClearance returns the largest clearance of any class.
func (r *Rules) MaxClearance() int {
	if r == nil {
		return 0
	}
	return max(0, lo.Max(lo.Map(lo.Values(r.classes), func(c NetClass, _ int) int { return c.Clearance })))
}
