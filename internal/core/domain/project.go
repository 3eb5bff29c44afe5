package domain

import (
	"fmt"
	"strings"
)

// DateLayout is the calendar-date format used for project and update dates.
const DateLayout = "2006-01-02"

// MaxProgress is the completion percentage of a finished project.
const MaxProgress = 100

// ProjectStatus represents the lifecycle state of a project.
type ProjectStatus string

const (
	StatusNotStarted ProjectStatus = "NotStarted"
	StatusInProgress ProjectStatus = "InProgress"
	StatusOnHold     ProjectStatus = "OnHold"
	StatusCompleted  ProjectStatus = "Completed"
)

var statusLabels = map[ProjectStatus]string{
	StatusNotStarted: "Not Started",
	StatusInProgress: "In Progress",
	StatusOnHold:     "On Hold",
	StatusCompleted:  "Completed",
}

// Statuses lists every status in display order.
var Statuses = []ProjectStatus{StatusNotStarted, StatusInProgress, StatusOnHold, StatusCompleted}

func (s ProjectStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s ProjectStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// ParseStatus accepts the canonical name or the display label.
func ParseStatus(s string) (ProjectStatus, error) {
	s = strings.TrimSpace(s)
	for st, label := range statusLabels {
		if strings.EqualFold(s, string(st)) || strings.EqualFold(s, label) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// ProgressUpdate is a dated, authored contribution to a project's progress.
type ProgressUpdate struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	Author          string `json:"author"`
	Summary         string `json:"summary"`
	WorkDescription string `json:"workDescription,omitempty"`
	// Photo is an opaque reference to the evidence image (data URL or blob key).
	Photo        string `json:"photo,omitempty"`
	ProgressMade int    `json:"progressMade"`
	Verified     bool   `json:"verified"`
}

// Project is the aggregate root. Updates are stored newest-first by insertion.
type Project struct {
	ID                         string           `json:"id"`
	Name                       string           `json:"name"`
	Description                string           `json:"description"`
	StartDate                  string           `json:"startDate"`
	EndDate                    string           `json:"endDate"`
	Status                     ProjectStatus    `json:"status"`
	Progress                   int              `json:"progress"`
	WorkVolume                 string           `json:"workVolume"`
	TotalCost                  float64          `json:"totalCost"`
	AssignedFieldAdminUsername string           `json:"assignedFieldAdminUsername,omitempty"`
	Updates                    []ProgressUpdate `json:"updates"`
}

// Clone returns a deep copy so readers never share the update slice.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Updates = append([]ProgressUpdate(nil), p.Updates...)
	return &c
}

// ApplyUpdate prepends u and advances progress. The project becomes Completed
// only when the clamped progress lands exactly on MaxProgress.
func (p *Project) ApplyUpdate(u ProgressUpdate) {
	p.Progress = clampProgress(p.Progress + u.ProgressMade)
	if p.Progress == MaxProgress {
		p.Status = StatusCompleted
	} else {
		p.Status = StatusInProgress
	}
	p.prepend(u)
}

// ApplyDailyReport behaves like ApplyUpdate with a "reaches or exceeds"
// completion threshold, and overwrites work volume and total cost when the
// report carries them.
func (p *Project) ApplyDailyReport(u ProgressUpdate, workVolume *string, totalCost *float64) {
	if workVolume != nil && *workVolume != "" {
		p.WorkVolume = *workVolume
	}
	if totalCost != nil {
		p.TotalCost = *totalCost
	}
	p.Progress = clampProgress(p.Progress + u.ProgressMade)
	if p.Progress >= MaxProgress {
		p.Status = StatusCompleted
	} else {
		p.Status = StatusInProgress
	}
	p.prepend(u)
}

// SetStatus overrides the status. Completed forces 100 and NotStarted forces 0;
// any other status pulls a 100 down to 99 and otherwise keeps progress.
func (p *Project) SetStatus(s ProjectStatus) {
	switch {
	case s == StatusCompleted:
		p.Progress = MaxProgress
	case s == StatusNotStarted:
		p.Progress = 0
	case p.Progress == MaxProgress:
		p.Progress = MaxProgress - 1
	}
	p.Status = s
}

// Verify marks the update with the given id as verified. found reports whether
// the update exists, changed whether it was unverified before the call.
func (p *Project) Verify(updateID string) (found, changed bool) {
	for i := range p.Updates {
		if p.Updates[i].ID == updateID {
			changed = !p.Updates[i].Verified
			p.Updates[i].Verified = true
			return true, changed
		}
	}
	return false, false
}

func (p *Project) prepend(u ProgressUpdate) {
	p.Updates = append([]ProgressUpdate{u}, p.Updates...)
}

func clampProgress(v int) int {
	return max(0, min(MaxProgress, v))
}
