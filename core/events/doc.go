// Package events defines the typed session event contract.
//
// Every state transition of the kiosk flows through these events: the
// presence tick and the session workers post them to a single-consumer queue
// drained by the session controller, which is the only place session state is
// mutated.
//
// Event kinds are grouped by producer-facing namespaces:
//
//   - presence.*
//   - session.*
//
// presence events (emitted by the presence tracker on the control tick)
//
//   - GreetCustomer (presence.greet_customer): a known customer should be
//     greeted; carries the recognized name.
//   - EnrollCustomer (presence.enroll_customer): an unknown face should be
//     enrolled; carries the face crop. At most one is in flight at a time.
//   - PresenceReset (presence.reset): the customer left; fired once per
//     continuous absence episode.
//
// session events (emitted by session workers and the timer scheduler)
//
//   - GreetingFinished (session.greeting_finished): the welcome-back prompt
//     finished playing.
//   - EnrollmentSucceeded (session.enrollment_succeeded): a name was captured
//     and the identity was enrolled.
//   - EnrollmentFailed (session.enrollment_failed): no usable name was
//     captured; registration is abandoned.
//   - EnrollmentConfirmed (session.enrollment_confirmed): the post-enrollment
//     delay elapsed; ordering may begin.
//   - SessionCompleted (session.completed): the customer confirmed the order.
package events
