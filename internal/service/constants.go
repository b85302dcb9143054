package service

const (
	// Strava page size, the API maximum
	ActivitiesPerPage = 100

	// Activities whose streams are fetched per sync, to stay inside the 15 minute quota
	StreamBatchSize = 50

	// Used when analysis.workers is unset
	DefaultWorkers = 4
)

// Sync phases reported on the progress channel
const (
	PhaseActivities = "activities"
	PhaseStreams    = "streams"
	PhaseEfforts    = "efforts"
)
