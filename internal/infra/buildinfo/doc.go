// Package buildinfo exposes build-time information injected via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/clockschedule-go/internal/infra/buildinfo.Version=v1.0.0"
package buildinfo
