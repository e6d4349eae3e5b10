package games

import (
	"fmt"
	"strings"
)

// Device is the target platform a game template renders on.
type Device string

const (
	DeviceWeb    Device = "web"
	DeviceMobile Device = "mobile"
)

// ParseDevice validates a caller-supplied device string against the known
// enumeration. Unknown values are a caller error, not a pipeline error.
func ParseDevice(s string) (Device, error) {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceWeb:
		return DeviceWeb, nil
	case DeviceMobile:
		return DeviceMobile, nil
	default:
		return "", fmt.Errorf("unknown device %q (supported: web, mobile)", s)
	}
}

// Metadata describes the compatibility surface of a game template. The
// matcher filters on Device and QuestionType; Name is display-only.
type Metadata struct {
	Name         string `json:"name,omitempty"`
	Device       string `json:"device"`
	QuestionType string `json:"question_type"`
}

// GameRecord is a playable game template from the store. Records are
// immutable from the pipeline's perspective; config mutation always works on
// copies of Config and Code.
type GameRecord struct {
	ID       string   `json:"id"`
	Metadata Metadata `json:"metadata"`
	Config   string   `json:"config"`
	Code     string   `json:"code"`
}

// Validate checks that a record is usable as a match candidate. Used by the
// seed tool and the template validator before a record reaches the store.
func (g *GameRecord) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("game record has no id")
	}
	if _, err := ParseDevice(g.Metadata.Device); err != nil {
		return fmt.Errorf("game %s: %w", g.ID, err)
	}
	switch g.Metadata.QuestionType {
	case "multiple_choice", "true_false":
	default:
		return fmt.Errorf("game %s: unknown question type %q", g.ID, g.Metadata.QuestionType)
	}
	if strings.TrimSpace(g.Code) == "" {
		return fmt.Errorf("game %s: code is empty", g.ID)
	}
	if strings.TrimSpace(g.Config) == "" {
		return fmt.Errorf("game %s: config is empty", g.ID)
	}
	return nil
}
