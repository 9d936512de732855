package worker

import "titledoctor/features/job"

// One payload struct per topic. Events carry the subset of the job the
// next stage needs, never the full snapshot; jobId is the only
// correlation key back to the store.

type Submitted struct {
	JobID         string `json:"jobId"`
	Channel       string `json:"channel"`
	Email         string `json:"email"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type ChannelResolved struct {
	JobID         string `json:"jobId"`
	Email         string `json:"email"`
	ChannelID     string `json:"channelId"`
	ChannelName   string `json:"channelName"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type VideosFetched struct {
	JobID         string      `json:"jobId"`
	Email         string      `json:"email"`
	ChannelName   string      `json:"channelName"`
	Videos        []job.Video `json:"videos"`
	CorrelationID string      `json:"correlation_id,omitempty"`
}

type TitlesGenerated struct {
	JobID          string              `json:"jobId"`
	Email          string              `json:"email"`
	ChannelName    string              `json:"channelName"`
	ImprovedTitles []job.ImprovedTitle `json:"improvedTitles"`
	CorrelationID  string              `json:"correlation_id,omitempty"`
}

type EmailSent struct {
	JobID         string `json:"jobId"`
	Email         string `json:"email"`
	EmailID       string `json:"emailId"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

// StageFailed is the payload of every *.error topic. Error is a
// user-safe message; the technical cause only reaches the store and logs.
type StageFailed struct {
	JobID         string `json:"jobId"`
	Email         string `json:"email"`
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id,omitempty"`
}

type ErrorNotified struct {
	JobID         string `json:"jobId"`
	Email         string `json:"email"`
	EmailID       string `json:"emailId"`
	CorrelationID string `json:"correlation_id,omitempty"`
}
