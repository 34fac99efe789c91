// Package config loads flightdash settings from defaults, an optional config
// file, a .env file, FLIGHTDASH_* environment variables and command-line
// flags, in increasing order of priority.
package config
