// Package audit provides the mission audit trail.
//
// Every executed robot command, the power-on event, and the single fatal
// dead-end alarm produce one record: a tag, the three sensor readings taken
// after the step, and the carry-state label. Emission is fire-and-forget
// from the core's point of view; callers log sink failures and move on.
//
// Implementations:
//
//   - CSVLogger writes one CSV line per record next to the map file,
//     flushed on every write.
//   - Store appends records to a SQLite database and answers queries such
//     as per-mission record listings and alarm counts.
//   - Recorder keeps records in memory for tests; NopSink discards them.
package audit
