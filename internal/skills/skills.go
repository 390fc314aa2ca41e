// Package skills holds the side-effecting actions the assistant can run:
// launching apps, driving the browser, media keys, power state, file
// operations, system metrics and WhatsApp messaging. Every action speaks
// its outcome and returns an error only when the underlying operation
// actually failed; "not found" style outcomes are spoken, not errored.
package skills

import (
	"matrix/internal/command"
	"matrix/internal/config"
)

// Speaker is the voice-out collaborator every skill reports through.
type Speaker interface {
	Speak(text string)
}

// Catalog builds the full command table from the configuration. The
// order here is the matcher's tie-break order.
func Catalog(cfg *config.Config, sp Speaker) []*command.Definition {
	apps := NewApps(cfg.AppPaths, sp)
	browser := NewBrowser(sp)
	media := NewMedia(sp)
	system := NewSystem(sp)
	power := NewPower(sp)
	files := NewFiles(cfg.WorkDir, sp)
	messenger := NewMessenger(cfg.StorePath, cfg.Contacts, sp)

	return []*command.Definition{
		// Application control
		{
			Patterns:    []string{"open chrome", "launch chrome", "start chrome"},
			Handler:     command.Func(func() error { return apps.Open("chrome", "Chrome") }),
			Description: "Open Google Chrome",
			Category:    command.CategoryApps,
		},
		{
			Patterns:    []string{"open firefox", "launch firefox"},
			Handler:     command.Func(func() error { return apps.Open("firefox", "Firefox") }),
			Description: "Open Firefox",
			Category:    command.CategoryApps,
		},
		{
			Patterns:    []string{"open editor", "open notepad", "launch notepad"},
			Handler:     command.Func(func() error { return apps.Open("editor", "the editor") }),
			Description: "Open the text editor",
			Category:    command.CategoryApps,
		},
		{
			Patterns:    []string{"open calculator", "launch calculator", "calculator"},
			Handler:     command.Func(func() error { return apps.Open("calculator", "Calculator") }),
			Description: "Open Calculator",
			Category:    command.CategoryApps,
		},
		{
			Patterns:    []string{"open vscode", "open code", "launch vscode"},
			Handler:     command.Func(func() error { return apps.Open("vscode", "VS Code") }),
			Description: "Open VS Code",
			Category:    command.CategoryApps,
		},
		{
			Patterns:    []string{"open spotify", "launch spotify", "start spotify"},
			Handler:     command.Func(func() error { return apps.Open("spotify", "Spotify") }),
			Description: "Open Spotify",
			Category:    command.CategoryApps,
		},

		// Browser control
		{
			Patterns:    []string{"search for", "search", "google", "look up"},
			Handler:     command.FuncArg(browser.Search),
			Description: "Search the web",
			Category:    command.CategoryBrowser,
			RequiresArg: true,
		},
		{
			Patterns:    []string{"open youtube", "go to youtube"},
			Handler:     command.Func(func() error { return browser.OpenSite("YouTube", "https://www.youtube.com") }),
			Description: "Open YouTube",
			Category:    command.CategoryBrowser,
		},
		{
			Patterns:    []string{"open gmail", "check email"},
			Handler:     command.Func(func() error { return browser.OpenSite("Gmail", "https://mail.google.com") }),
			Description: "Open Gmail",
			Category:    command.CategoryBrowser,
		},
		{
			Patterns:    []string{"search youtube", "youtube search"},
			Handler:     command.FuncArg(browser.SearchYouTube),
			Description: "Search YouTube",
			Category:    command.CategoryBrowser,
			RequiresArg: true,
		},
		{
			Patterns:    []string{"open maps", "show maps", "google maps"},
			Handler:     command.FuncArg(browser.OpenMaps),
			Description: "Open Google Maps",
			Category:    command.CategoryBrowser,
			RequiresArg: true,
		},

		// Media control
		{
			Patterns:    []string{"play music", "pause music", "play pause", "toggle music"},
			Handler:     command.Func(media.PlayPause),
			Description: "Play or pause music",
			Category:    command.CategoryMedia,
		},
		{
			Patterns:    []string{"next track", "next song", "skip"},
			Handler:     command.Func(media.Next),
			Description: "Next track",
			Category:    command.CategoryMedia,
		},
		{
			Patterns:    []string{"previous track", "previous song"},
			Handler:     command.Func(media.Previous),
			Description: "Previous track",
			Category:    command.CategoryMedia,
		},
		{
			Patterns:    []string{"volume up", "increase volume", "louder"},
			Handler:     command.Func(media.VolumeUp),
			Description: "Increase volume",
			Category:    command.CategoryMedia,
		},
		{
			Patterns:    []string{"volume down", "decrease volume", "quieter"},
			Handler:     command.Func(media.VolumeDown),
			Description: "Decrease volume",
			Category:    command.CategoryMedia,
		},
		{
			Patterns:    []string{"mute", "unmute", "toggle mute"},
			Handler:     command.Func(media.ToggleMute),
			Description: "Toggle mute",
			Category:    command.CategoryMedia,
		},

		// System info
		{
			Patterns:    []string{"battery status", "battery level", "how much battery"},
			Handler:     command.Func(system.Battery),
			Description: "Battery status",
			Category:    command.CategorySystem,
		},
		{
			Patterns:    []string{"cpu usage", "processor usage", "cpu status"},
			Handler:     command.Func(system.CPU),
			Description: "CPU usage",
			Category:    command.CategorySystem,
		},
		{
			Patterns:    []string{"memory usage", "ram usage", "memory status"},
			Handler:     command.Func(system.Memory),
			Description: "Memory usage",
			Category:    command.CategorySystem,
		},
		{
			Patterns:    []string{"disk space", "storage space", "disk usage"},
			Handler:     command.Func(system.Disk),
			Description: "Disk usage",
			Category:    command.CategorySystem,
		},
		{
			Patterns:    []string{"system status", "full status", "system info"},
			Handler:     command.Func(system.FullStatus),
			Description: "Full system status",
			Category:    command.CategorySystem,
		},

		// Power controls
		{
			Patterns:    []string{"shutdown", "shut down", "power off"},
			Handler:     command.Func(power.Shutdown),
			Description: "Shutdown the machine",
			Category:    command.CategoryPower,
		},
		{
			Patterns:    []string{"restart", "reboot"},
			Handler:     command.Func(power.Restart),
			Description: "Restart the machine",
			Category:    command.CategoryPower,
		},
		{
			Patterns:    []string{"suspend the machine", "suspend computer"},
			Handler:     command.Func(power.Suspend),
			Description: "Suspend the machine",
			Category:    command.CategoryPower,
		},
		{
			Patterns:    []string{"lock screen", "lock the screen"},
			Handler:     command.Func(power.Lock),
			Description: "Lock the screen",
			Category:    command.CategoryPower,
		},

		// File management
		{
			Patterns:    []string{"create folder", "make folder", "new folder"},
			Handler:     command.FuncArg(files.CreateFolder),
			Description: "Create a folder",
			Category:    command.CategoryFiles,
			RequiresArg: true,
		},
		{
			Patterns:    []string{"delete file", "remove file"},
			Handler:     command.FuncArg(files.DeleteFile),
			Description: "Delete a file",
			Category:    command.CategoryFiles,
			RequiresArg: true,
		},
		{
			Patterns:    []string{"search files", "find files"},
			Handler:     command.FuncArg(files.SearchFiles),
			Description: "Search for files",
			Category:    command.CategoryFiles,
			RequiresArg: true,
		},

		// Messaging
		{
			Patterns:    []string{"send message", "send whatsapp", "whatsapp message"},
			Handler:     command.FuncArg(messenger.Send),
			Description: "Send a WhatsApp message",
			Category:    command.CategoryCommunication,
			RequiresArg: true,
		},
	}
}
