// Package config defines the clockschedule-cli configuration file
// (~/.clockschedule/config.yaml) and its layered loading.
package config
