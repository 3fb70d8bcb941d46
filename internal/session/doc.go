// Package session implements the request session controller behind the
// generation form: it owns the editable generation parameters, keeps them in
// their domains, composes the outbound payload and drives the submission
// lifecycle against a Generator.
//
//   - state.go: Phase, Field, Params and the read-only View.
//   - fields.go: parameter writes (clamping policy, enumerations).
//   - submit.go: CanSubmit/Start/Submit and outcome reconciliation.
//   - errors.go: ValidationError, TransportError, ResponseShapeError.
//
// Lifecycle: Idle -> Submitting -> Succeeded | Failed -> Submitting -> ...
// Only Start/Submit and the resolution of the outstanding call change the
// phase. The payload is captured under the controller lock before the call
// is issued, so parameter writes made while a request is in flight never
// reach it.
package session
