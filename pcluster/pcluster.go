package pcluster

import (
	"context"
	"errors"
)

var (
	ErrClusterNotFound    = errors.New("cluster not found")
	ErrImageNotFound      = errors.New("image not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrInvalidFleetStatus = errors.New("invalid compute fleet status")
	ErrNoHeadNode         = errors.New("cluster has no running head node")
)

type Event interface {
	Name() string
	Plain() map[string]string
}

type EventPublisher interface {
	Publish(event Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) error { return nil }

// Version lists the cluster API versions the console can talk to, oldest
// first.
type Version struct {
	Full []string `json:"full"`
}

type VersionRepository interface {
	Version(ctx context.Context) (*Version, error)
}
