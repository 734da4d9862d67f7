// Package config loads and validates the edgewatch YAML configuration.
// Secrets (log source token, email API key) are never stored in the file
// itself; the config holds the names of environment variables and resolves
// them on demand. Watch provides fsnotify-based hot-reload so the alerting
// policy (origin allow-list, delivery strictness) can change without a
// restart.
package config
