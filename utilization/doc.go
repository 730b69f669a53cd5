// Package utilization derives per-egress load reports from an allocation.
//
// Analyze walks every egress of the model in declaration order, sums the
// flow an allocation places on it and expresses the result as a percentage
// of capacity. A full egress is a legitimate outcome and reports as 100%;
// an allocation that exceeds capacity beyond tolerance is a broken
// invariant of whatever produced it, and Analyze refuses it with
// ErrOverCapacity rather than emitting a misleading report.
//
// Reports feed three consumers: the utilization block of every output
// document, congestion detection inside the feedback controller, and
// assertions in tests.
package utilization
