package analysis

// Strava activity types with a statistics catalogue
const (
	Run         = "Run"
	TrailRun    = "TrailRun"
	Ride        = "Ride"
	VirtualRide = "VirtualRide"
	Hike        = "Hike"
	InlineSkate = "InlineSkate"
	AlpineSki   = "AlpineSki"
)

// Standard targets in meters
const (
	DistanceHalfMarathon = 21097
	DistanceMarathon     = 42195
)

// CooperSeconds and VO2maxSeconds are the test durations used for fitness estimates
const (
	CooperSeconds = 12 * 60
	VO2maxSeconds = 6 * 60
)

func bestTime(name string, meters float64) Search {
	return Search{Name: name, Kind: TimeForDistance, Target: meters}
}

func bestDistance(name string, seconds int) Search {
	return Search{Name: name, Kind: DistanceForTime, Target: float64(seconds)}
}

func bestGradient(name string, meters float64) Search {
	return Search{Name: name, Kind: ElevationForDistance, Target: meters}
}

func bestPower(name string, seconds int) Search {
	return Search{Name: name, Kind: PowerForTime, Target: float64(seconds)}
}

var runSearches = []Search{
	bestDistance("Best Cooper (12 min)", CooperSeconds),
	bestTime("Best 200 m", 200),
	bestTime("Best 400 m", 400),
	bestTime("Best 1000 m", 1000),
	bestTime("Best 5000 m", 5000),
	bestTime("Best 10000 m", 10000),
	bestTime("Best half Marathon", DistanceHalfMarathon),
	bestTime("Best Marathon", DistanceMarathon),
	bestDistance("Best 1 h", 60*60),
	bestDistance("Best 2 h", 2*60*60),
	bestDistance("Best 3 h", 3*60*60),
	bestDistance("Best 4 h", 4*60*60),
	bestDistance("Best 5 h", 5*60*60),
	bestDistance("Best 6 h", 6*60*60),
}

var rideSearches = []Search{
	bestTime("Best 250 m", 250),
	bestTime("Best 500 m", 500),
	bestTime("Best 1000 m", 1000),
	bestTime("Best 5 km", 5000),
	bestTime("Best 10 km", 10000),
	bestTime("Best 20 km", 20000),
	bestTime("Best 50 km", 50000),
	bestTime("Best 100 km", 100000),
	bestDistance("Best 30 min", 30*60),
	bestDistance("Best 1 h", 60*60),
	bestDistance("Best 2 h", 2*60*60),
	bestDistance("Best 3 h", 3*60*60),
	bestDistance("Best 4 h", 4*60*60),
	bestDistance("Best 5 h", 5*60*60),
	bestGradient("Max gradient for 250 m", 250),
	bestGradient("Max gradient for 500 m", 500),
	bestGradient("Max gradient for 1000 m", 1000),
	bestGradient("Max gradient for 5 km", 5000),
	bestGradient("Max gradient for 10 km", 10000),
	bestGradient("Max gradient for 20 km", 20000),
}

var virtualRideSearches = []Search{
	bestTime("Best 250 m", 250),
	bestTime("Best 500 m", 500),
	bestTime("Best 1000 m", 1000),
	bestTime("Best 5 km", 5000),
	bestTime("Best 10 km", 10000),
	bestTime("Best 20 km", 20000),
	bestTime("Best 50 km", 50000),
	bestTime("Best 100 km", 100000),
	bestDistance("Best 30 min", 30*60),
	bestDistance("Best 1 h", 60*60),
	bestDistance("Best 2 h", 2*60*60),
	bestDistance("Best 3 h", 3*60*60),
	bestDistance("Best 4 h", 4*60*60),
	bestPower("Best average power for 20 min", 20*60),
	bestPower("Best average power for 1 h", 60*60),
}

var hikeSearches = []Search{
	bestTime("Best 1000 m", 1000),
	bestTime("Best 5 km", 5000),
	bestTime("Best 10 km", 10000),
	bestDistance("Best 1 h", 60*60),
	bestDistance("Best 2 h", 2*60*60),
	bestGradient("Max gradient for 500 m", 500),
	bestGradient("Max gradient for 1000 m", 1000),
	bestGradient("Max gradient for 5 km", 5000),
}

var inlineSkateSearches = []Search{
	bestTime("Best 200 m", 200),
	bestTime("Best 400 m", 400),
	bestTime("Best 1000 m", 1000),
	bestTime("Best 10000 m", 10000),
	bestTime("Best half Marathon", DistanceHalfMarathon),
	bestTime("Best Marathon", DistanceMarathon),
	bestDistance("Best 1 h", 60*60),
	bestDistance("Best 2 h", 2*60*60),
	bestDistance("Best 3 h", 3*60*60),
	bestDistance("Best 4 h", 4*60*60),
}

var alpineSkiSearches = []Search{
	bestTime("Best 250 m", 250),
	bestTime("Best 500 m", 500),
	bestTime("Best 1000 m", 1000),
	bestTime("Best 5 km", 5000),
	bestTime("Best 10 km", 10000),
	bestDistance("Best 30 min", 30*60),
	bestDistance("Best 1 h", 60*60),
	bestDistance("Best 2 h", 2*60*60),
	bestDistance("Best 3 h", 3*60*60),
	bestDistance("Best 4 h", 4*60*60),
	bestDistance("Best 5 h", 5*60*60),
}

// SearchesFor returns the statistics catalogue for an activity type, or nil
// if the type has none. The returned slice is a copy.
func SearchesFor(activityType string) []Search {
	var searches []Search
	switch activityType {
	case Run, TrailRun:
		searches = runSearches
	case Ride:
		searches = rideSearches
	case VirtualRide:
		searches = virtualRideSearches
	case Hike:
		searches = hikeSearches
	case InlineSkate:
		searches = inlineSkateSearches
	case AlpineSki:
		searches = alpineSkiSearches
	default:
		return nil
	}
	return append([]Search(nil), searches...)
}
