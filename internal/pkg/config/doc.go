// Package config provides the settings of the RSA command-line tool.
//
// Settings come from built-in defaults, an optional YAML file, RSA_CLI_* environment
// variables and command-line flags, in increasing order of precedence. Every settings
// struct validates itself before it is handed to the rest of the application.
package config
