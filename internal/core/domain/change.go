package domain

// ChangeKind identifies which mutation produced a Change.
type ChangeKind string

const (
	ChangeProjectAdded   ChangeKind = "project_added"
	ChangeProgressAdded  ChangeKind = "progress_added"
	ChangeUpdateVerified ChangeKind = "update_verified"
	ChangeStatusSet      ChangeKind = "status_set"
	ChangeUserCreated    ChangeKind = "user_created"
	ChangeSession        ChangeKind = "session"
)

// Change is published to subscribers after a mutation has been applied.
type Change struct {
	Kind      ChangeKind
	ProjectID string
	UpdateID  string
	Username  string
}
