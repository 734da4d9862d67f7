// Package store keeps a bounded in-memory history of recently dispatched
// alerts so the API and the live stream can show what fired without any
// persistence. Oldest records are dropped once the cap is reached.
package store
