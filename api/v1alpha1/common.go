package v1alpha1

var (
	jobTypes         = []JobType{JobTypeFetchTerrain, JobTypeWeatherForecast, JobTypeTideForecast, JobTypeWaveForecast}
	jobStatuses      = []JobStatus{JobStatusPending, JobStatusProcessing, JobStatusCompleted, JobStatusFailed}
	pipelineStatuses = []PipelineStatus{PipelineStatusActive, PipelineStatusArchived, PipelineStatusCompleted}
)

func JobTypes() []JobType {
	return append([]JobType(nil), jobTypes...)
}

func JobStatuses() []JobStatus {
	return append([]JobStatus(nil), jobStatuses...)
}

func PipelineStatuses() []PipelineStatus {
	return append([]PipelineStatus(nil), pipelineStatuses...)
}

func (t JobType) Valid() bool {
	for _, v := range jobTypes {
		if v == t {
			return true
		}
	}
	return false
}

func (s JobStatus) Valid() bool {
	for _, v := range jobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Terminal reports whether no further progress is expected without a retry.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

func (s PipelineStatus) Valid() bool {
	for _, v := range pipelineStatuses {
		if v == s {
			return true
		}
	}
	return false
}
