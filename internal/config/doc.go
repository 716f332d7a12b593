// Package config loads the tabtrans JSON configuration file into a typed
// Config. Required keys are checked once at startup; optional keys receive
// their defaults so the rest of the program never inspects raw maps.
package config
