package config

const (
	// TopicJobSubmitted starts the pipeline for a freshly queued job.
	TopicJobSubmitted = "job.submitted"

	// TopicChannelResolved carries the resolved channel id and name.
	TopicChannelResolved = "channel.resolved"
	TopicChannelError    = "channel.error"

	// TopicVideosFetched carries the channel's recent video summaries.
	TopicVideosFetched = "videos.fetched"
	TopicVideosError   = "videos.error"

	// TopicTitlesGenerated carries the model's improved titles.
	TopicTitlesGenerated = "titles.generated"
	TopicTitlesError     = "titles.error"

	// TopicEmailSent is the terminal success event.
	TopicEmailSent  = "email.sent"
	TopicEmailError = "email.error"

	// TopicErrorNotified is the terminal event of the compensation path.
	TopicErrorNotified = "error.notified"
)

// ErrorTopics lists every failure topic; all of them converge on the
// error handler.
func ErrorTopics() []string {
	return []string{TopicChannelError, TopicVideosError, TopicTitlesError, TopicEmailError}
}

// AllTopics lists every topic the pipeline publishes to, for nsqd topic
// pre-creation at startup.
func AllTopics() []string {
	return []string{
		TopicJobSubmitted,
		TopicChannelResolved, TopicChannelError,
		TopicVideosFetched, TopicVideosError,
		TopicTitlesGenerated, TopicTitlesError,
		TopicEmailSent, TopicEmailError,
		TopicErrorNotified,
	}
}
