package job

import "time"

// Status tracks pipeline progress. It always names the most recently
// attempted stage; Failed freezes forward progress until the error
// handler takes over.
type Status string

const (
	StatusQueued           Status = "queued"
	StatusResolvingChannel Status = "resolving channel"
	StatusChannelResolved  Status = "channel resolved"
	StatusFetchingVideos   Status = "fetching videos"
	StatusVideosFetched    Status = "videos fetched"
	StatusGeneratingTitles Status = "generating titles"
	StatusTitlesGenerated  Status = "titles generated"
	StatusSendingEmail     Status = "sending email"
	StatusEmailSent        Status = "email sent"
	StatusFailed           Status = "failed"
	StatusErrorNotified    Status = "error notification email sent"
)

// Terminal reports whether no pipeline stage may write to the job again.
// Failed is terminal for stages; only the error handler moves a job past it.
func (s Status) Terminal() bool {
	switch s {
	case StatusFailed, StatusEmailSent, StatusErrorNotified:
		return true
	}
	return false
}

type Video struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Thumbnail   string `json:"thumbnail"`
}

type ImprovedTitle struct {
	VideoID       string `json:"videoId"`
	OriginalTitle string `json:"originalTitle"`
	ImprovedTitle string `json:"improvedTitle"`
	Rationale     string `json:"rationale"`
	URL           string `json:"url"`
}

// Job is one user's end-to-end request. The record only ever grows:
// updates merge new fields onto the prior snapshot via Apply, never
// clearing anything already known.
type Job struct {
	ID             string          `json:"jobId"`
	Channel        string          `json:"channel"`
	Email          string          `json:"email"`
	Status         Status          `json:"status"`
	ChannelID      string          `json:"channelId,omitempty"`
	ChannelName    string          `json:"channelName,omitempty"`
	Videos         []Video         `json:"videos,omitempty"`
	ImprovedTitles []ImprovedTitle `json:"improvedTitles,omitempty"`
	Error          string          `json:"error,omitempty"`
	EmailID        string          `json:"emailId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}

// Patch is a partial update. Zero-valued fields leave the snapshot
// untouched, which makes Apply idempotent: applying the same patch twice
// yields the same snapshot as once.
type Patch struct {
	Status         Status
	ChannelID      string
	ChannelName    string
	Videos         []Video
	ImprovedTitles []ImprovedTitle
	Error          string
	EmailID        string
	CompletedAt    *time.Time
}

func (j Job) Apply(p Patch) Job {
	if p.Status != "" {
		j.Status = p.Status
	}
	if p.ChannelID != "" {
		j.ChannelID = p.ChannelID
	}
	if p.ChannelName != "" {
		j.ChannelName = p.ChannelName
	}
	if p.Videos != nil {
		j.Videos = p.Videos
	}
	if p.ImprovedTitles != nil {
		j.ImprovedTitles = p.ImprovedTitles
	}
	if p.Error != "" {
		j.Error = p.Error
	}
	if p.EmailID != "" {
		j.EmailID = p.EmailID
	}
	if p.CompletedAt != nil {
		j.CompletedAt = p.CompletedAt
	}
	return j
}
