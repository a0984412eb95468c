package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownRace is returned when no supply structure is registered for a race.
var ErrUnknownRace = errors.New("unknown race")

// Race constants.
const (
	Protoss = "protoss"
	Terran  = "terran"
)

// Structure type constants.
const (
	Pylon             = "pylon"
	SupplyDepot       = "supplydepot"
	Nexus             = "nexus"
	CommandCenter     = "commandcenter"
	OrbitalCommand    = "orbitalcommand"
	PlanetaryFortress = "planetaryfortress"
)

// race maps a race to its supply structure and town-hall variants.
type race struct {
	supply    string
	townHalls []string
}

// Zerg is not registered: overlords are trained, not placed.
var races = map[string]race{
	Protoss: {supply: Pylon, townHalls: []string{Nexus}},
	Terran:  {supply: SupplyDepot, townHalls: []string{CommandCenter, OrbitalCommand, PlanetaryFortress}},
}

// SupplyStructureFor returns the supply structure type built by race r.
func SupplyStructureFor(r string) (string, error) {
	rc, ok := races[strings.ToLower(r)]
	if !ok {
		return "", fmt.Errorf("supply structure for %q: %w", r, ErrUnknownRace)
	}
	return rc.supply, nil
}

// TownHallsFor returns every town-hall type of race r.
func TownHallsFor(r string) ([]string, error) {
	rc, ok := races[strings.ToLower(r)]
	if !ok {
		return nil, fmt.Errorf("town halls for %q: %w", r, ErrUnknownRace)
	}
	return rc.townHalls, nil
}

// BuildOrder is the order name a worker carries while on its way to start
// a structure of the given type.
func BuildOrder(structureType string) string {
	return "build_" + strings.ToLower(structureType)
}
