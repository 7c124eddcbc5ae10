// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Command-line flags (LoadMap)
//  2. Environment variables (CLOCKSCHEDULE_ prefix)
//  3. Configuration file (YAML)
//  4. Defaults (WithDefaults)
//
// Watcher reports writes to a configuration file so long-running commands
// can pick up edits.
package confloader
