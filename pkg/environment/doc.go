// Package environment names the deployment environments the service runs in
// (development, staging, production) and normalises the APP_ENV value.
//
// The logger presets in pkg/logger pick their level and output format from it.
package environment
