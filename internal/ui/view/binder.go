// Package view renders the client store into named views.
package view

import (
	"strings"

	"github.com/palemoky/riddle-lobby/internal/client"
)

// ViewID names a renderable region of the presentation surface.
type ViewID string

const (
	ViewNotice ViewID = "notice"
	ViewRooms  ViewID = "rooms"
	ViewRoom   ViewID = "room"
	ViewRoster ViewID = "roster"
	ViewChat   ViewID = "chat"
	ViewRiddle ViewID = "riddle"
	ViewScore  ViewID = "score"
)

// screens lists the views mounted for each phase.
var screens = map[client.Phase][]ViewID{
	client.PhaseStandby:       {ViewNotice},
	client.PhaseCreatingLobby: {ViewNotice},
	client.PhaseEnteringName:  {ViewNotice},
	client.PhaseChoosingLobby: {ViewNotice, ViewRooms},
	client.PhaseJoiningName:   {ViewNotice},
	client.PhaseInLobby:       {ViewNotice, ViewRoom, ViewRoster, ViewChat},
	client.PhaseInGame:        {ViewNotice, ViewRoom, ViewRoster, ViewChat, ViewRiddle, ViewScore},
	client.PhaseDisconnected:  {ViewNotice},
}

// ScreenViews returns the views mounted for phase, in display order.
func ScreenViews(phase client.Phase) []ViewID {
	return append([]ViewID(nil), screens[phase]...)
}

type renderFunc func(s *client.Store, opts Options) string

var renderers = map[ViewID]renderFunc{
	ViewNotice: renderNotice,
	ViewRooms:  renderRooms,
	ViewRoom:   renderRoom,
	ViewRoster: renderRoster,
	ViewChat:   renderChat,
	ViewRiddle: renderRiddle,
	ViewScore:  renderScore,
}

// Options tune rendering.
type Options struct {
	ChatLines int // chat lines shown, newest last
	Width     int
}

// Binder renders store fields into views. Rendering a view that is not
// mounted is a no-op that marks it dirty; the view is rendered from the
// store when it mounts, so nothing received meanwhile is lost.
type Binder struct {
	store *client.Store
	opts  Options

	phase     client.Phase
	navigated bool

	mounted map[ViewID]bool
	dirty   map[ViewID]bool
	output  map[ViewID]string
	hidden  map[ViewID]bool // unmounted by the surface while on screen
}

// NewBinder creates a binder with nothing mounted.
func NewBinder(store *client.Store, opts Options) *Binder {
	if opts.ChatLines <= 0 {
		opts.ChatLines = 8
	}
	if opts.Width <= 0 {
		opts.Width = 50
	}
	return &Binder{
		store:   store,
		opts:    opts,
		mounted: make(map[ViewID]bool),
		dirty:   make(map[ViewID]bool),
		output:  make(map[ViewID]string),
		hidden:  make(map[ViewID]bool),
	}
}

// Navigate swaps the visible screen to phase. Calling it with the active
// phase does nothing.
func (b *Binder) Navigate(phase client.Phase) {
	if b.navigated && b.phase == phase {
		return
	}
	b.phase = phase
	b.navigated = true

	for id := range b.mounted {
		delete(b.mounted, id)
		delete(b.output, id)
	}
	for _, id := range screens[phase] {
		if b.hidden[id] {
			continue
		}
		b.mount(id)
	}
}

// Render re-renders id from the current store.
func (b *Binder) Render(id ViewID) {
	if !b.mounted[id] {
		b.dirty[id] = true
		return
	}
	b.render(id)
}

// RenderAll re-renders every mounted view.
func (b *Binder) RenderAll() {
	for id := range b.mounted {
		b.render(id)
	}
}

// Mount attaches id to the surface and renders it. Views that are not
// part of the active screen stay unmounted.
func (b *Binder) Mount(id ViewID) {
	delete(b.hidden, id)
	if !b.onScreen(id) || b.mounted[id] {
		return
	}
	b.mount(id)
}

// Unmount detaches id, for example when the surface collapses a panel.
// It stays unmounted across navigation until Mount is called.
func (b *Binder) Unmount(id ViewID) {
	b.hidden[id] = true
	delete(b.mounted, id)
	delete(b.output, id)
}

// Mounted reports whether id is currently attached.
func (b *Binder) Mounted(id ViewID) bool {
	return b.mounted[id]
}

// Dirty reports whether id changed while unmounted.
func (b *Binder) Dirty(id ViewID) bool {
	return b.dirty[id]
}

// Output returns the last rendering of id, or "" when unmounted.
func (b *Binder) Output(id ViewID) string {
	return b.output[id]
}

// Screen joins the mounted views of the active screen in display order.
func (b *Binder) Screen() string {
	var parts []string
	for _, id := range screens[b.phase] {
		if out := b.output[id]; b.mounted[id] && out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, "\n")
}

// Phase returns the active screen's phase.
func (b *Binder) Phase() client.Phase {
	return b.phase
}

// SetWidth changes the render width and refreshes mounted views.
func (b *Binder) SetWidth(width int) {
	if width <= 0 || width == b.opts.Width {
		return
	}
	b.opts.Width = width
	b.RenderAll()
}

func (b *Binder) mount(id ViewID) {
	b.mounted[id] = true
	b.render(id)
}

func (b *Binder) render(id ViewID) {
	fn, ok := renderers[id]
	if !ok {
		return
	}
	b.output[id] = fn(b.store, b.opts)
	delete(b.dirty, id)
}

func (b *Binder) onScreen(id ViewID) bool {
	if !b.navigated {
		return false
	}
	for _, v := range screens[b.phase] {
		if v == id {
			return true
		}
	}
	return false
}
