package events

import "github.com/ottokiosk/otto-core/core/vision"

const (
	KindGreetCustomer  Kind = "presence.greet_customer"
	KindEnrollCustomer Kind = "presence.enroll_customer"
	KindPresenceReset  Kind = "presence.reset"
)

// GreetCustomer requests a welcome-back greeting for a recognized customer.
type GreetCustomer struct {
	Base
	Name string
}

func NewGreetCustomer(name string) GreetCustomer {
	return GreetCustomer{Base: NewBase(KindGreetCustomer), Name: name}
}

// EnrollCustomer requests enrollment of an unrecognized face. Face is the
// cropped grayscale region the identity capability will learn from.
type EnrollCustomer struct {
	Base
	Face vision.Frame
}

func NewEnrollCustomer(face vision.Frame) EnrollCustomer {
	return EnrollCustomer{Base: NewBase(KindEnrollCustomer), Face: face}
}

// PresenceReset signals that no face has been visible long enough to clear
// the session for the next customer.
type PresenceReset struct {
	Base
}

func NewPresenceReset() PresenceReset {
	return PresenceReset{Base: NewBase(KindPresenceReset)}
}
