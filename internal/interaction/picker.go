// Package interaction turns pointer events over the figure into selection
// changes and highlight updates.
package interaction

import (
	"alcyxob/painrelief/internal/anatomy"
	"alcyxob/painrelief/internal/domain"
	"alcyxob/painrelief/internal/platform/logger"
	"alcyxob/painrelief/internal/selection"
)

// PartState is what the user sees on a single part.
type PartState string

const (
	StateDefault  PartState = "default"
	StateHovered  PartState = "hovered"
	StateSelected PartState = "selected"
)

// Picker tracks which part the pointer is over and forwards clicks to the
// selection state. At most one part is hovered; a selected region always
// shows as selected even while hovered. Picker is not safe for concurrent
// use.
type Picker struct {
	scene   *anatomy.Scene
	state   *selection.State
	log     *logger.Logger
	hovered anatomy.Handle
}

// NewPicker wires a picker to scene and state and paints the initial
// highlight. The picker keeps the scene materials in sync with state for
// every change, including ones made by other callers.
func NewPicker(scene *anatomy.Scene, state *selection.State, log *logger.Logger) *Picker {
	if log == nil {
		log = logger.Nop()
	}
	p := &Picker{scene: scene, state: state, log: log, hovered: anatomy.NoHandle}
	state.Subscribe(func(selection.Snapshot) { p.repaint() })
	p.repaint()
	return p
}

// Hovered returns the hovered handle or anatomy.NoHandle.
func (p *Picker) Hovered() anatomy.Handle { return p.hovered }

// PointerEnter marks h as hovered. Props and unknown handles are ignored.
func (p *Picker) PointerEnter(h anatomy.Handle) {
	if _, ok := p.resolve(h, "pointer enter"); !ok {
		return
	}
	if p.hovered == h {
		return
	}
	p.hovered = h
	p.repaint()
}

// PointerLeave clears the hover if h is the hovered part.
func (p *Picker) PointerLeave(h anatomy.Handle) {
	if p.hovered != h {
		return
	}
	p.hovered = anatomy.NoHandle
	p.repaint()
}

// Click selects the region behind h. Clicking the selected region again
// keeps it selected.
func (p *Picker) Click(h anatomy.Handle) {
	region, ok := p.resolve(h, "click")
	if !ok {
		return
	}
	p.state.SelectRegion(&region)
}

// PointerMoveAt hit-tests the viewport pixel (x, y) and moves the hover to
// whatever region is under it. Hovering empty space or a prop clears it.
func (p *Picker) PointerMoveAt(x, y float64) {
	h, ok := p.pick(x, y)
	if !ok {
		if p.hovered != anatomy.NoHandle {
			p.PointerLeave(p.hovered)
		}
		return
	}
	if p.hovered != anatomy.NoHandle && p.hovered != h {
		p.PointerLeave(p.hovered)
	}
	p.PointerEnter(h)
}

// ClickAt hit-tests (x, y) and clicks the nearest region under it.
// Clicking empty space does nothing. It reports the clicked region.
func (p *Picker) ClickAt(x, y float64) (domain.BodyRegion, bool) {
	h, ok := p.pick(x, y)
	if !ok {
		p.log.Debug("click on empty space ignored", "x", x, "y", y)
		return "", false
	}
	region, ok := p.resolve(h, "click")
	if !ok {
		return "", false
	}
	p.state.SelectRegion(&region)
	return region, true
}

// StateOf reports how the part behind h is displayed.
func (p *Picker) StateOf(h anatomy.Handle) PartState {
	region, ok := p.scene.RegionOf(h)
	if !ok {
		return StateDefault
	}
	if sel := p.state.SelectedRegion(); sel != nil && *sel == region {
		return StateSelected
	}
	if h == p.hovered {
		return StateHovered
	}
	return StateDefault
}

func (p *Picker) pick(x, y float64) (anatomy.Handle, bool) {
	hit, ok := p.scene.FirstHit(p.scene.Camera().ScreenToRay(x, y))
	if !ok {
		return anatomy.NoHandle, false
	}
	return hit.Handle, true
}

func (p *Picker) resolve(h anatomy.Handle, event string) (domain.BodyRegion, bool) {
	region, ok := p.scene.RegionOf(h)
	if !ok {
		name := "unknown"
		if part, found := p.scene.Part(h); found {
			name = part.Name
		}
		p.log.Debug("ignoring pointer target without a region", "event", event, "handle", int(h), "name", name)
		return "", false
	}
	return region, true
}

func (p *Picker) repaint() {
	snap := p.state.Snapshot()
	p.scene.ApplyHighlight(snap.Region, p.hovered, snap.Intensity)
}
