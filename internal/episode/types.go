package episode

import "time"

// Grid cell symbols used by the trajectory format.
const (
	CellCounter = "X"
	CellFloor   = " "
	CellPot     = "P"
	CellServing = "S"
	CellOnions  = "O"
	CellDishes  = "D"
)

// Player orientations as recorded in the trajectory files.
const (
	North = "north"
	South = "south"
	East  = "east"
	West  = "west"
)

// Position is an integer grid coordinate in display convention
// (x = column, y = row). The adapter is responsible for converting
// from the recorder's row/col convention.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// OrientationOffset returns the unit offset of the cell a player with the
// given orientation is facing. Unknown orientations default to south, which
// is what the recorder emits for freshly spawned agents.
func OrientationOffset(orientation string) Position {
	switch orientation {
	case North:
		return Position{X: 0, Y: -1}
	case South:
		return Position{X: 0, Y: 1}
	case West:
		return Position{X: -1, Y: 0}
	case East:
		return Position{X: 1, Y: 0}
	default:
		return Position{X: 0, Y: 1}
	}
}

// ObjectState is one object on the grid (or in a player's hands).
// The soup-specific fields are absent for plain ingredients.
type ObjectState struct {
	Name           string   `json:"name"`
	Position       Position `json:"position"`
	IsCooking      bool     `json:"isCooking,omitempty"`
	IsReady        bool     `json:"isReady,omitempty"`
	NumIngredients *int     `json:"numIngredients,omitempty"`
	Ingredients    []string `json:"ingredients,omitempty"`
	CookTime       *int     `json:"cookTime,omitempty"`
}

// IngredientCount resolves the two ways the recorder reports pot contents.
func (o ObjectState) IngredientCount() int {
	if o.NumIngredients != nil {
		return *o.NumIngredients
	}
	return len(o.Ingredients)
}

// PlayerState is one agent at one timestep.
type PlayerState struct {
	ID          int          `json:"id"`
	Position    Position     `json:"position"`
	Orientation string       `json:"orientation"`
	HeldObject  *ObjectState `json:"heldObject,omitempty"`
}

// Frame is one recorded simulation instant. Its index in the episode's
// frame sequence equals Timestep; the reconstructor depends on that.
type Frame struct {
	Timestep int           `json:"timestep"`
	Players  []PlayerState `json:"players"`
	Objects  []ObjectState `json:"objects"`
	Score    float64       `json:"score"`
}

// StaticInfo is the per-episode layout and constants.
type StaticInfo struct {
	Grid           [][]string `json:"grid"`
	Width          int        `json:"width"`
	Height         int        `json:"height"`
	CookTime       *int       `json:"cookTime,omitempty"`
	DeliveryReward *int       `json:"deliveryReward,omitempty"`
	LayoutName     string     `json:"layoutName,omitempty"`
	MapName        string     `json:"mapName,omitempty"`
}

// Default constants when the recorder omits them.
const (
	DefaultCookDuration   = 20
	DefaultDeliveryReward = 20
)

// CookDuration returns the episode cook time in timesteps.
func (s StaticInfo) CookDuration() int {
	if s.CookTime != nil && *s.CookTime > 0 {
		return *s.CookTime
	}
	return DefaultCookDuration
}

// Reward returns the score awarded per delivered soup.
func (s StaticInfo) Reward() int {
	if s.DeliveryReward != nil && *s.DeliveryReward > 0 {
		return *s.DeliveryReward
	}
	return DefaultDeliveryReward
}

// Layout returns whichever layout label the recorder supplied.
func (s StaticInfo) Layout() string {
	if s.LayoutName != "" {
		return s.LayoutName
	}
	return s.MapName
}

// InBounds reports whether the position lies on the grid.
func (s StaticInfo) InBounds(p Position) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// CellAt returns the cell symbol at p, or floor when p is off-grid or the
// grid row is ragged.
func (s StaticInfo) CellAt(p Position) string {
	if p.Y < 0 || p.Y >= len(s.Grid) {
		return CellFloor
	}
	row := s.Grid[p.Y]
	if p.X < 0 || p.X >= len(row) {
		return CellFloor
	}
	return row[p.X]
}

// Episode is one complete recorded trajectory.
type Episode struct {
	FileName   string     `json:"fileName"`
	StaticInfo StaticInfo `json:"staticInfo"`
	Frames     []Frame    `json:"frames"`
}

// Duration is the wall-clock length of the episode at the given frame
// duration.
func (e Episode) Duration(frameDuration time.Duration) time.Duration {
	return time.Duration(len(e.Frames)) * frameDuration
}
