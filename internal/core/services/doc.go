// Package services implements the driving ports: form persistence with
// remote failover, template synthesis and synthesis chat sessions, and
// settings. Form editing itself lives in the mutation package.
package services
