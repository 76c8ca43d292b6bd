// Package kafka publishes match events to a Kafka topic.
package kafka
