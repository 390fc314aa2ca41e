package skills

import (
	"fmt"
	log "log/slog"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

const batteryCapacityPath = "/sys/class/power_supply/BAT0/capacity"

// System speaks machine metrics back to the user.
type System struct {
	speaker Speaker
}

func NewSystem(speaker Speaker) *System {
	return &System{speaker: speaker}
}

func (s *System) Battery() error {
	percent, err := batteryPercent()
	if err != nil {
		log.Debug("No battery reading", "err", err)
		s.speaker.Speak("I could not find a battery on this machine.")
		return nil
	}
	s.speaker.Speak(fmt.Sprintf("Your battery is at %d percent.", percent))
	return nil
}

func (s *System) CPU() error {
	percents, err := cpu.Percent(500*time.Millisecond, false)
	if err != nil || len(percents) == 0 {
		s.speaker.Speak("I could not read the CPU usage.")
		return fmt.Errorf("cpu percent: %w", err)
	}
	s.speaker.Speak(fmt.Sprintf("CPU usage is at %.0f percent.", percents[0]))
	return nil
}

func (s *System) Memory() error {
	vm, err := mem.VirtualMemory()
	if err != nil {
		s.speaker.Speak("I could not read the memory usage.")
		return fmt.Errorf("virtual memory: %w", err)
	}
	s.speaker.Speak(fmt.Sprintf("Memory usage is at %.0f percent.", vm.UsedPercent))
	return nil
}

func (s *System) Disk() error {
	usage, err := disk.Usage("/")
	if err != nil {
		s.speaker.Speak("I could not read the disk usage.")
		return fmt.Errorf("disk usage: %w", err)
	}
	freeGB := float64(usage.Free) / (1 << 30)
	s.speaker.Speak(fmt.Sprintf("The disk is %.0f percent full, with %.0f gigabytes free.", usage.UsedPercent, freeGB))
	return nil
}

// FullStatus combines the individual readings into one spoken summary.
// Unavailable readings are skipped, not errored.
func (s *System) FullStatus() error {
	var parts []string

	if percent, err := batteryPercent(); err == nil {
		parts = append(parts, fmt.Sprintf("battery at %d percent", percent))
	}
	if percents, err := cpu.Percent(500*time.Millisecond, false); err == nil && len(percents) > 0 {
		parts = append(parts, fmt.Sprintf("CPU at %.0f percent", percents[0]))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		parts = append(parts, fmt.Sprintf("memory at %.0f percent", vm.UsedPercent))
	}
	if usage, err := disk.Usage("/"); err == nil {
		parts = append(parts, fmt.Sprintf("disk %.0f percent full", usage.UsedPercent))
	}

	if len(parts) == 0 {
		s.speaker.Speak("I could not read any system metrics.")
		return fmt.Errorf("no system metrics available")
	}
	s.speaker.Speak("System status: " + strings.Join(parts, ", ") + ".")
	return nil
}

func batteryPercent(paths ...string) (int, error) {
	path := batteryCapacityPath
	if len(paths) > 0 {
		path = paths[0]
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var percent int
	if _, err := fmt.Sscanf(strings.TrimSpace(string(data)), "%d", &percent); err != nil {
		return 0, fmt.Errorf("parse battery capacity: %w", err)
	}
	return percent, nil
}
