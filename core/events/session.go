package events

const (
	KindGreetingFinished    Kind = "session.greeting_finished"
	KindEnrollmentSucceeded Kind = "session.enrollment_succeeded"
	KindEnrollmentFailed    Kind = "session.enrollment_failed"
	KindEnrollmentConfirmed Kind = "session.enrollment_confirmed"
	KindSessionCompleted    Kind = "session.completed"
)

// GreetingFinished reports that the welcome-back prompt finished playing.
type GreetingFinished struct {
	Base
	Name string
}

func NewGreetingFinished(name string) GreetingFinished {
	return GreetingFinished{Base: NewBase(KindGreetingFinished), Name: name}
}

// EnrollmentSucceeded reports that the customer's spoken name was captured
// and the identity capability accepted the enrollment.
type EnrollmentSucceeded struct {
	Base
	Name string
}

func NewEnrollmentSucceeded(name string) EnrollmentSucceeded {
	return EnrollmentSucceeded{Base: NewBase(KindEnrollmentSucceeded), Name: name}
}

// EnrollmentFailed reports that registration was abandoned without a usable
// name.
type EnrollmentFailed struct {
	Base
}

func NewEnrollmentFailed() EnrollmentFailed {
	return EnrollmentFailed{Base: NewBase(KindEnrollmentFailed)}
}

// EnrollmentConfirmed reports that the post-enrollment delay elapsed and the
// freshly registered customer may start ordering.
type EnrollmentConfirmed struct {
	Base
	Name string
}

func NewEnrollmentConfirmed(name string) EnrollmentConfirmed {
	return EnrollmentConfirmed{Base: NewBase(KindEnrollmentConfirmed), Name: name}
}

// SessionCompleted reports that the customer confirmed their order.
type SessionCompleted struct {
	Base
}

func NewSessionCompleted() SessionCompleted {
	return SessionCompleted{Base: NewBase(KindSessionCompleted)}
}
