// Package executor runs setting actions against the operating system.
//
// The Executor interface is what the apply package depends on. System is
// the real implementation: it writes registry values and launches
// PowerShell, Control Panel applets and ms-settings: pages on Windows, and
// fails every action with ErrUnsupportedPlatform elsewhere. Serialized
// wraps any Executor so that two actions touching the same resource never
// run at the same time.
package executor
