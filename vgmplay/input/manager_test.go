package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/go-vgmplay/vgmplay/input/action"
	"github.com/valerio/go-vgmplay/vgmplay/input/event"
)

func TestManager_Debouncing(t *testing.T) {
	tests := []struct {
		name        string
		eventType   event.Type
		timeBetween time.Duration
		wantCalls   int
	}{
		{
			name:        "rapid press - should debounce",
			eventType:   event.Press,
			timeBetween: 50 * time.Millisecond,
			wantCalls:   1,
		},
		{
			name:        "slow press - should not debounce",
			eventType:   event.Press,
			timeBetween: 200 * time.Millisecond,
			wantCalls:   2,
		},
		{
			name:        "rapid release - should debounce",
			eventType:   event.Release,
			timeBetween: 10 * time.Millisecond,
			wantCalls:   1,
		},
		{
			name:        "hold event type - should not debounce",
			eventType:   event.Hold,
			timeBetween: 10 * time.Millisecond,
			wantCalls:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			clock := time.Unix(1000, 0)
			m.now = func() time.Time { return clock }

			calls := 0
			m.On(action.PlayerPauseToggle, tt.eventType, func() { calls++ })

			assert.True(t, m.Trigger(action.PlayerPauseToggle, tt.eventType), "first event always passes")
			clock = clock.Add(tt.timeBetween)
			m.Trigger(action.PlayerPauseToggle, tt.eventType)

			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestManager_Dispatch(t *testing.T) {
	m := NewManager()

	var got []string
	m.On(action.VolumeUp, event.Press, func() { got = append(got, "a") })
	m.On(action.VolumeUp, event.Press, func() { got = append(got, "b") })
	m.On(action.VolumeDown, event.Press, func() { got = append(got, "down") })

	assert.True(t, m.Trigger(action.VolumeUp, event.Press))
	assert.Equal(t, []string{"a", "b"}, got)

	assert.False(t, m.Trigger(action.PlayerRestart, event.Press), "no handlers")
	assert.False(t, m.Trigger(action.VolumeUp, event.Release))
}

func TestDefaultKeyMap(t *testing.T) {
	act, ok := GetDefaultMapping("Space")
	assert.True(t, ok)
	assert.Equal(t, action.PlayerPauseToggle, act)

	act, ok = GetDefaultMapping("3")
	assert.True(t, ok)
	ch, ok := action.MuteChannel(act)
	assert.True(t, ok)
	assert.Equal(t, "PSG3", ch)

	_, ok = GetDefaultMapping("F1")
	assert.False(t, ok)

	for key, act := range DefaultKeyMap {
		assert.NotEqual(t, "Unknown", act.String(), "key %q", key)
	}
}
