// Package timeouts defines shared timeout constants used across commands.
package timeouts

import "time"

// TelemetryShutdown limits how long exporters may flush spans on exit.
const TelemetryShutdown = 5 * time.Second

// ArchiveBusy is how long an archive connection waits on a locked database.
const ArchiveBusy = 5 * time.Second
