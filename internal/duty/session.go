package duty

import "time"

// DutySession is one in-progress shift. At most one exists per user ID.
type DutySession struct {
	ID             string
	UserID         string
	UserName       string
	StartedAt      time.Time
	LastContinueAt time.Time
	Continues      int
}

// EndCause tags why a session closed. Every cause except manual counts as
// an auto-end in audit records and user notices.
type EndCause string

const (
	CauseManual      EndCause = "manual"
	CauseTimeout     EndCause = "timeout"
	CauseMaxDuration EndCause = "max_duration"
	CauseNoDMChannel EndCause = "no_dm_channel"
	CauseForceAdmin  EndCause = "force_admin"
)

func (c EndCause) Auto() bool {
	return c != CauseManual
}

// activeDuty bundles a session with its pending reminder prompt. The prompt
// channel is non-nil only between prompt delivery and the user's response
// (or the deadline).
type activeDuty struct {
	session *DutySession
	prompt  chan struct{}
}
