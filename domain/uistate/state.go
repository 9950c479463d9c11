// Package uistate classifies which game screen is showing, commits state
// transitions and extracts structured values from the confirmed screens.
package uistate

// State is the classified game screen.
type State int

const (
	Unknown State = iota
	MainMenu
	WorkshopMenu
	SkillTreeMenu
	MatchmakingQueue
	MapView
	InRaid
	BlueprintMenu
	TrackedResourcesMenu
)

// States lists every known state in declaration order.
var States = []State{Unknown, MainMenu, WorkshopMenu, SkillTreeMenu, MatchmakingQueue, MapView, InRaid, BlueprintMenu, TrackedResourcesMenu}

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main_menu"
	case WorkshopMenu:
		return "workshop_menu"
	case SkillTreeMenu:
		return "skill_tree_menu"
	case MatchmakingQueue:
		return "matchmaking_queue"
	case MapView:
		return "map_view"
	case InRaid:
		return "in_raid"
	case BlueprintMenu:
		return "blueprint_menu"
	case TrackedResourcesMenu:
		return "tracked_resources_menu"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Raid reports whether s is scoped to a raid (in-raid HUD or the raid map).
func (s State) Raid() bool { return s == InRaid || s == MapView }
