// Package infra contains technical adapters such as the upstream HTTP
// client, the MQTT announcer and metrics exporters. These packages
// should depend only on the interfaces defined in the core packages.
package infra
