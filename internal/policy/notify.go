package policy

// NoticeKind distinguishes success and error notifications.
type NoticeKind int

const (
	Success NoticeKind = iota
	Failure
)

func (k NoticeKind) String() string {
	if k == Failure {
		return "error"
	}
	return "success"
}

// Notice is a transient user-facing message.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// Notifier displays notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

const (
	msgAdded   = "Vehicle Added Successfully"
	msgUpdated = "Vehicle Updated Successfully"
	msgDeleted = "Vehicle Deleted Successfully"
)
