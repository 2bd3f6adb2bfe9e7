package platform

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

type EventKind int

const (
	EventOther EventKind = iota
	EventClose
	EventResize
	EventMinimize
	EventRestore
	EventKey
)

func (k EventKind) String() string {
	switch k {
	case EventOther:
		return "other"
	case EventClose:
		return "close"
	case EventResize:
		return "resize"
	case EventMinimize:
		return "minimize"
	case EventRestore:
		return "restore"
	case EventKey:
		return "key"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

type Event struct {
	Kind EventKind

	// Extent is the new window size for EventResize.
	Extent gfx.Extent

	// Key and Pressed are set for EventKey. Repeat is true for auto-repeated presses.
	Key     sdl.Keycode
	Pressed bool
	Repeat  bool
}

// KeyName is the human readable name of the event's key.
func (e Event) KeyName() string {
	return sdl.GetKeyName(e.Key)
}

func translateEvent(event sdl.Event) Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Kind: EventClose}
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Kind: EventClose}
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Kind: EventResize, Extent: gfx.Extent{Width: int(e.Data1), Height: int(e.Data2)}}
		case sdl.WINDOWEVENT_MINIMIZED:
			return Event{Kind: EventMinimize}
		case sdl.WINDOWEVENT_RESTORED:
			return Event{Kind: EventRestore}
		}
	case *sdl.KeyboardEvent:
		return Event{
			Kind:    EventKey,
			Key:     e.Keysym.Sym,
			Pressed: e.State == sdl.PRESSED,
			Repeat:  e.Repeat != 0,
		}
	}
	return Event{Kind: EventOther}
}
