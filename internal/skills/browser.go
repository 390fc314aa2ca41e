package skills

import (
	"fmt"
	log "log/slog"
	"net/url"

	"github.com/pkg/browser"

	"matrix/internal/text"
)

// Browser opens web pages in the system default browser.
type Browser struct {
	speaker Speaker
	open    func(url string) error // swapped out in tests
}

func NewBrowser(speaker Speaker) *Browser {
	return &Browser{speaker: speaker, open: browser.OpenURL}
}

// Search runs a Google search for whatever is left of the command after
// stripping the trigger words.
func (b *Browser) Search(cmdText string) error {
	term := text.ExtractParam(cmdText, "matrix", "search", "google", "look", "up", "for", "the", "a")
	if term == "" {
		b.speaker.Speak("What should I search for?")
		return nil
	}
	b.speaker.Speak("Searching for " + term + ".")
	return b.openURL("https://www.google.com/search?q=" + url.QueryEscape(term))
}

func (b *Browser) SearchYouTube(cmdText string) error {
	term := text.ExtractParam(cmdText, "matrix", "search", "youtube", "for", "the", "a")
	if term == "" {
		b.speaker.Speak("What should I search YouTube for?")
		return nil
	}
	b.speaker.Speak("Searching YouTube for " + term + ".")
	return b.openURL("https://www.youtube.com/results?search_query=" + url.QueryEscape(term))
}

// OpenMaps opens Google Maps, on a place when one was named.
func (b *Browser) OpenMaps(cmdText string) error {
	place := text.ExtractParam(cmdText, "matrix", "open", "show", "google", "maps", "the", "a")
	if place == "" {
		b.speaker.Speak("Opening Google Maps.")
		return b.openURL("https://www.google.com/maps")
	}
	b.speaker.Speak("Showing " + place + " on the map.")
	return b.openURL("https://www.google.com/maps/search/" + url.QueryEscape(place))
}

// OpenSite opens a fixed site by name.
func (b *Browser) OpenSite(name, siteURL string) error {
	b.speaker.Speak("Opening " + name + ".")
	return b.openURL(siteURL)
}

func (b *Browser) openURL(u string) error {
	log.Debug("Opening browser", "url", u)
	if err := b.open(u); err != nil {
		b.speaker.Speak("Error opening the browser.")
		return fmt.Errorf("open %s: %w", u, err)
	}
	return nil
}
