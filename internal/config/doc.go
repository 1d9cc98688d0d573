// Package config defines the application configuration structures and the
// logic for loading them from the environment. Settings are grouped into
// logical sections and validated after loading so the rest of the
// application can rely on a well-formed Config.
package config
