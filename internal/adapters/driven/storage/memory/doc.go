// Package memory provides in-process implementations of the driven storage
// ports.
//
// RecordStore backs the local form collection when storage.ephemeral is set,
// so nothing is written to disk. FormStore and ConfigStore hold forms and
// settings in maps; they stand in for the remote backend and the config file
// in tests of the services and driving adapters, and suit embedding the
// services without any persistence.
package memory
