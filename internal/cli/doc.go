// Package cli provides the command-line interface of tabtrans. It sets up
// the cobra root command and its flags, merges flag values with the
// defaults from the config file and runs the translation.
package cli
