package skills

import (
	"fmt"
	log "log/slog"
	"os/exec"
)

// Media drives playback through playerctl and the default PulseAudio
// sink through pactl.
type Media struct {
	speaker Speaker
	run     func(name string, args ...string) error // swapped out in tests
}

func NewMedia(speaker Speaker) *Media {
	return &Media{
		speaker: speaker,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

func (m *Media) control(reply, name string, args ...string) error {
	if err := m.run(name, args...); err != nil {
		log.Error("Media control failed", "cmd", name, "args", args, "err", err)
		m.speaker.Speak("Error controlling media.")
		return fmt.Errorf("%s: %w", name, err)
	}
	m.speaker.Speak(reply)
	return nil
}

func (m *Media) PlayPause() error {
	return m.control("Playing or pausing music.", "playerctl", "play-pause")
}

func (m *Media) Next() error {
	return m.control("Next track.", "playerctl", "next")
}

func (m *Media) Previous() error {
	return m.control("Previous track.", "playerctl", "previous")
}

func (m *Media) VolumeUp() error {
	return m.control("Volume up.", "pactl", "set-sink-volume", "@DEFAULT_SINK@", "+5%")
}

func (m *Media) VolumeDown() error {
	return m.control("Volume down.", "pactl", "set-sink-volume", "@DEFAULT_SINK@", "-5%")
}

func (m *Media) ToggleMute() error {
	return m.control("Toggling mute.", "pactl", "set-sink-mute", "@DEFAULT_SINK@", "toggle")
}
