// Package forward is the interface-level forward-mode (tangent-linear)
// mirror of package ad, per the core's own framing that higher-order
// and forward modes are obtainable externally rather than built into
// the tape. Dual carries a value and a derivative ("tangent") side by
// side with no tape at all: arithmetic on it eagerly propagates the
// tangent using the same chain rule the reverse sweep applies lazily.
package forward
