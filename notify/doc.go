// Package notify describes the events a match pass produces and the
// Notifier interface that delivers them.
//
// Plan turns a list of matches into events. Delivery is pluggable: LogNotifier
// logs events, Recorder keeps them for tests and the kafka subpackage
// publishes them to a topic.
package notify
