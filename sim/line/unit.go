package line

// StationTimes records one unit's passage through one station. Timestamps
// are optional values gated by the stage booleans, indexed by station
// position, so "not recorded" is explicit rather than a magic number.
type StationTimes struct {
	QueueEnter float64 // when the unit joined the station's input queue
	Start      float64 // when the unit was admitted to a machine slot
	End        float64 // when service finished
	Wait       float64 // Start - QueueEnter, includes time lost to repairs ahead of it

	Entered bool
	Started bool
	Done    bool
}

// Unit is the flowing work item. Created by the arrival generator, mutated
// only by the station worker currently holding it, immutable once it reaches
// the terminal queue.
type Unit struct {
	ID       string
	Created  float64
	Finished float64
	Complete bool

	// Stations is indexed by station position in the line.
	Stations []StationTimes
}

// NewUnit creates a unit with timestamp slots for each of the line's
// stations.
func NewUnit(id string, created float64, stations int) *Unit {
	return &Unit{
		ID:       id,
		Created:  created,
		Stations: make([]StationTimes, stations),
	}
}
