// Package notify renders and dispatches notifications for processed files.
//
// Two independent channels exist: ntfy carries a short text message with a
// title, Discord carries a structured embed. The dispatcher reads a settings
// snapshot per attempt, so runtime configuration changes apply to the next
// file without coordination. Each channel is best-effort: delivery failures
// are logged and swallowed, and one channel's failure never suppresses the
// other or the pipeline's own bookkeeping.
package notify
