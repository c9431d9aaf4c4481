package core

import (
	"fmt"
	"strings"
)

// Zone identifies where a card currently is
type Zone int

const (
	// ZoneLibrary is ordered; index 0 is the top card
	ZoneLibrary Zone = iota
	ZoneHand
	ZoneBattlefield
	ZoneGraveyard
	// ZoneCommand holds commanders until they are cast
	ZoneCommand
)

// Zones lists every zone in declaration order
var Zones = []Zone{ZoneLibrary, ZoneHand, ZoneBattlefield, ZoneGraveyard, ZoneCommand}

func (z Zone) String() string {
	switch z {
	case ZoneLibrary:
		return "library"
	case ZoneHand:
		return "hand"
	case ZoneBattlefield:
		return "battlefield"
	case ZoneGraveyard:
		return "graveyard"
	case ZoneCommand:
		return "command"
	default:
		return fmt.Sprintf("Unknown(%d)", int(z))
	}
}

// CanCastFrom returns true for the zones spells may be cast from
func (z Zone) CanCastFrom() bool {
	return z == ZoneHand || z == ZoneCommand
}

// ParseZone converts a zone name to a Zone
func ParseZone(s string) (Zone, error) {
	for _, z := range Zones {
		if strings.EqualFold(z.String(), strings.TrimSpace(s)) {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unknown zone %q", s)
}
