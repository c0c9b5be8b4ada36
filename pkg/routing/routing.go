// Package routing provides the control-plane helpers for moving people
// between shops: nearest-shop selection, movement-mode command payloads,
// and the weather-driven mode-switch predicates.
package routing

import (
	"strings"
	"time"

	"github.com/simulated-city/simcity/pkg/cityerrors"
	"github.com/simulated-city/simcity/pkg/movement"
)

// Movement modes accepted by BuildMoveCommand.
const (
	ModeRandomWalk = "random_walk"
	ModeMoveToShop = "move_to_shop"
)

// DefaultCommandSource identifies the control agent in command payloads.
const DefaultCommandSource = "agent_control"

// Shop is a simple coffee-shop location used by control routing.
type Shop struct {
	ID   string  `json:"shop_id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// MoveCommand is the payload published when a person's movement mode
// changes.
type MoveCommand struct {
	Source     string `json:"source"`
	PersonID   string `json:"person_id"`
	Mode       string `json:"mode"`
	Tick       int    `json:"tick"`
	TargetShop *Shop  `json:"target_shop"`
	Timestamp  string `json:"timestamp"`
}

// SelectNearestShop returns the shop closest to the person's position.
// The shop list must not be empty.
func SelectNearestShop(personX, personY float64, shops []Shop) (Shop, error) {
	if len(shops) == 0 {
		return Shop{}, cityerrors.New(cityerrors.ErrorTypeValidation, "shops must not be empty")
	}

	nearest := shops[0]
	best := movement.DistanceMeters(personX, personY, nearest.X, nearest.Y)
	for _, shop := range shops[1:] {
		if d := movement.DistanceMeters(personX, personY, shop.X, shop.Y); d < best {
			nearest = shop
			best = d
		}
	}
	return nearest, nil
}

// BuildMoveCommand builds a command payload for a person movement mode
// change. Mode must be "random_walk" or "move_to_shop"; the latter
// requires a target shop. An empty source falls back to
// DefaultCommandSource.
func BuildMoveCommand(personID, mode string, tick int, source string, targetShop *Shop) (*MoveCommand, error) {
	normalized := strings.ToLower(strings.TrimSpace(mode))
	if normalized != ModeRandomWalk && normalized != ModeMoveToShop {
		return nil, cityerrors.Newf(cityerrors.ErrorTypeValidation,
			"mode must be %q or %q", ModeRandomWalk, ModeMoveToShop)
	}
	if tick < 0 {
		return nil, cityerrors.New(cityerrors.ErrorTypeValidation, "tick must be >= 0")
	}
	if normalized == ModeMoveToShop && targetShop == nil {
		return nil, cityerrors.Newf(cityerrors.ErrorTypeValidation,
			"target shop is required when mode is %q", ModeMoveToShop)
	}
	if source == "" {
		source = DefaultCommandSource
	}

	return &MoveCommand{
		Source:     source,
		PersonID:   personID,
		Mode:       normalized,
		Tick:       tick,
		TargetShop: targetShop,
		Timestamp:  utcTimestamp(),
	}, nil
}

// ShouldEnterShelterMode reports whether rain requires a transition to
// shelter-seeking mode.
func ShouldEnterShelterMode(weatherState, currentMode string) bool {
	return strings.ToLower(strings.TrimSpace(weatherState)) == "rain" &&
		strings.ToLower(strings.TrimSpace(currentMode)) != ModeMoveToShop
}

// ShouldEnterRandomWalkMode reports whether sunny weather requires a
// transition back to random-walk mode.
func ShouldEnterRandomWalkMode(weatherState, currentMode string) bool {
	return strings.ToLower(strings.TrimSpace(weatherState)) == "sunny" &&
		strings.ToLower(strings.TrimSpace(currentMode)) != ModeRandomWalk
}

func utcTimestamp() string {
	return time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
}
