package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/vkngwrapper/presenter/internal/gfx"
)

func TestTranslateEvent(t *testing.T) {
	for _, tc := range []struct {
		name     string
		event    sdl.Event
		expected Event
	}{
		{"quit", &sdl.QuitEvent{}, Event{Kind: EventClose}},
		{"window close", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_CLOSE}, Event{Kind: EventClose}},
		{
			"resized",
			&sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 1024, Data2: 768},
			Event{Kind: EventResize, Extent: gfx.Extent{Width: 1024, Height: 768}},
		},
		{
			"size changed",
			&sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 640, Data2: 480},
			Event{Kind: EventResize, Extent: gfx.Extent{Width: 640, Height: 480}},
		},
		{"minimized", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MINIMIZED}, Event{Kind: EventMinimize}},
		{"restored", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESTORED}, Event{Kind: EventRestore}},
		{"focus", &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}, Event{Kind: EventOther}},
		{
			"key down",
			&sdl.KeyboardEvent{State: sdl.PRESSED, Keysym: sdl.Keysym{Sym: sdl.K_ESCAPE}},
			Event{Kind: EventKey, Key: sdl.K_ESCAPE, Pressed: true},
		},
		{
			"key repeat",
			&sdl.KeyboardEvent{State: sdl.PRESSED, Repeat: 1, Keysym: sdl.Keysym{Sym: sdl.K_a}},
			Event{Kind: EventKey, Key: sdl.K_a, Pressed: true, Repeat: true},
		},
		{
			"key up",
			&sdl.KeyboardEvent{State: sdl.RELEASED, Keysym: sdl.Keysym{Sym: sdl.K_SPACE}},
			Event{Kind: EventKey, Key: sdl.K_SPACE},
		},
		{"mouse", &sdl.MouseMotionEvent{}, Event{Kind: EventOther}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, translateEvent(tc.event))
		})
	}
}

func TestEventKindString(t *testing.T) {
	require.Equal(t, "resize", EventResize.String())
	require.Equal(t, "EventKind(42)", EventKind(42).String())
}
