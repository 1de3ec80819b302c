// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Mini view focus panel, animated return to overview, mouse picking
// 0.2.0 - Textured bodies, YAML body tables, headless frame/summary/snapshot output
// 0.1.0 - Initial release: orbiting bodies, starfield, orbit camera
