// Package server holds the HTTP server configuration.
//
// The main application entry point handles the actual server startup; this
// package only defines the settings embedded by core/config.
package server
