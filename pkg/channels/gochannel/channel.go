// Package gochannel provides the in-process pub/sub channel used for
// local development and tests.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

func newPubSub(cfg gochannel.Config, logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	// GoChannel is publisher and subscriber at once; both returns are the
	// same instance.
	pubSub := gochannel.NewGoChannel(cfg, logger)

	return pubSub, pubSub, nil
}

// CreateChannel builds the development channel: large buffer, fire and
// forget, no persistence.
func CreateChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	return newPubSub(gochannel.Config{
		OutputChannelBuffer: 1000,
	}, logger)
}

// CreateTestChannel builds a small persistent channel that blocks publish
// until the subscriber acks, so tests run deterministically.
func CreateTestChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	return newPubSub(gochannel.Config{
		OutputChannelBuffer:            10,
		Persistent:                     true,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
}
