// Package view derives the visible, ordered image sequence from a listing
// and a search term, and keeps the selection index consistent with it.
package view

import (
	"sort"
	"strings"

	"imagesort/internal/errors"

	"golang.org/x/text/cases"
)

// ChangeKind identifies what a Change reports.
type ChangeKind int

const (
	// ImagesChanged is published after every recompute.
	ImagesChanged ChangeKind = iota + 1
	// SelectionChanged is published whenever the selection index is set,
	// including the forced -1 step when the index was already 0.
	SelectionChanged
)

func (k ChangeKind) String() string {
	switch k {
	case ImagesChanged:
		return "images"
	case SelectionChanged:
		return "selection"
	default:
		return "unknown"
	}
}

// Change is delivered to observers. Images is a snapshot and may be kept.
type Change struct {
	Kind          ChangeKind
	Images        []string
	SelectedIndex int
}

// Pipeline is not safe for concurrent use; its owner serializes access.
type Pipeline struct {
	term      string
	foldTerm  string
	images    []string
	selected  int
	fold      cases.Caser
	observers map[int]func(Change)
	nextID    int
}

// New returns an empty pipeline with no selection.
func New() *Pipeline {
	return &Pipeline{
		selected:  -1,
		fold:      cases.Fold(),
		observers: make(map[int]func(Change)),
	}
}

// Subscribe registers fn for every Change and returns a func that removes it.
func (p *Pipeline) Subscribe(fn func(Change)) func() {
	id := p.nextID
	p.nextID++
	p.observers[id] = fn
	return func() { delete(p.observers, id) }
}

// Images returns a copy of the visible sequence.
func (p *Pipeline) Images() []string {
	return append([]string(nil), p.images...)
}

func (p *Pipeline) SearchTerm() string  { return p.term }
func (p *Pipeline) SelectedIndex() int { return p.selected }

// SelectedImage returns the image at the selection index, or "".
func (p *Pipeline) SelectedImage() string {
	if p.selected < 0 || p.selected >= len(p.images) {
		return ""
	}
	return p.images[p.selected]
}

// Recompute rebuilds the visible sequence from items, the current listing
// contents in any order, and re-applies the selection rule. A selection that
// keeps its index but now points at another image is re-published.
func (p *Pipeline) Recompute(items []string) {
	previous := p.SelectedImage()
	visible := make([]string, 0, len(items))
	for _, item := range items {
		if p.matches(item) {
			visible = append(visible, item)
		}
	}
	sort.Strings(visible)
	p.images = visible
	p.publish(Change{Kind: ImagesChanged, Images: p.Images(), SelectedIndex: p.inRange(p.selected)})
	if !p.adjustSelection() && p.SelectedImage() != previous {
		p.setSelected(p.selected)
	}
}

// SetSearchTerm changes the filter and recomputes from items.
func (p *Pipeline) SetSearchTerm(term string, items []string) {
	p.term = term
	p.foldTerm = p.fold.String(term)
	p.Recompute(items)
}

// SetSelectedIndex moves the selection. -1 is only valid when nothing is
// visible.
func (p *Pipeline) SetSelectedIndex(index int) error {
	if len(p.images) == 0 {
		if index != -1 {
			return errors.NewInvalidStateError("selection index out of range: no images")
		}
	} else if index < 0 || index >= len(p.images) {
		return errors.NewInvalidStateError("selection index out of range")
	}
	if index != p.selected {
		p.setSelected(index)
	}
	return nil
}

func (p *Pipeline) CanGoLeft() bool  { return p.selected > 0 }
func (p *Pipeline) CanGoRight() bool { return p.selected < len(p.images)-1 }

// GoLeft selects the previous image; it reports false at the start.
func (p *Pipeline) GoLeft() bool {
	if !p.CanGoLeft() {
		return false
	}
	p.setSelected(p.selected - 1)
	return true
}

// GoRight selects the next image; it reports false at the end.
func (p *Pipeline) GoRight() bool {
	if !p.CanGoRight() {
		return false
	}
	p.setSelected(p.selected + 1)
	return true
}

// matches tests the search term against the whole path.
func (p *Pipeline) matches(item string) bool {
	if p.foldTerm == "" {
		return true
	}
	return strings.Contains(p.fold.String(item), p.foldTerm)
}

// inRange maps index into the valid selection range for the current images.
func (p *Pipeline) inRange(index int) int {
	count := len(p.images)
	switch {
	case count == 0:
		return -1
	case index < 0:
		return 0
	case index > count-1:
		return count - 1
	}
	return index
}

// adjustSelection keeps the index in range after the sequence changed and
// reports whether it published a selection. An index of 0 is bounced
// through -1 so observers see the new first element.
func (p *Pipeline) adjustSelection() bool {
	count := len(p.images)
	published := false
	if p.selected == 0 {
		p.setSelected(-1)
		published = true
	}
	if p.selected < 0 && count > 0 {
		p.setSelected(0)
		published = true
	}
	if p.selected > count-1 {
		p.setSelected(count - 1)
		published = true
	}
	return published
}

func (p *Pipeline) setSelected(index int) {
	p.selected = index
	p.publish(Change{Kind: SelectionChanged, Images: p.Images(), SelectedIndex: index})
}

func (p *Pipeline) publish(c Change) {
	ids := make([]int, 0, len(p.observers))
	for id := range p.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := p.observers[id]; ok {
			fn(c)
		}
	}
}
