// Package config loads the lostfound configuration file.
//
// The file is TOML. Every section is optional; missing values keep their
// defaults and command-line flags override what the file sets.
//
//	[storage]
//	backend = "badger"
//	path = "~/.lostfound/db"
//
//	[embedding]
//	host = "http://localhost:11434/v1"
//	model = "paraphrase-multilingual"
//
//	[matching]
//	other_category_bonus = false
//
//	[notify.kafka]
//	brokers = ["localhost:9092"]
//	topic = "lostfound.matches"
//
//	[backfill]
//	batch_size = 50
//	workers = 4
//	requests_per_second = 10
package config
