package broker_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/myrjola/casefile/internal/broker"
	"github.com/myrjola/casefile/internal/pacing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelBroker(t *testing.T) {
	type testCase struct {
		name     string
		testFunc func(b *broker.ChannelBroker[string, pacing.Reveal])
	}
	reveal := pacing.Reveal{Kind: pacing.KindResponse, Index: 0, Text: "I gave them what they wanted.", Class: "", At: 0}
	tests := []testCase{
		{
			name: "subscriber receives content",
			testFunc: func(b *broker.ChannelBroker[string, pacing.Reveal]) {
				id := "token"
				channel := make(chan pacing.Reveal)
				b.Publish(id, channel)
				go func() {
					channel <- reveal
					close(channel)
					b.Unpublish(id)
				}()
				subscriptionChan := <-b.Subscribe(id)
				require.Equal(t, reveal, <-subscriptionChan, "subscriber did not receive content")
				msg, ok := <-subscriptionChan
				require.Empty(t, msg, "subscriber received content after producer closed")
				require.Falsef(t, ok, "channel not closed")
			},
		},
		{
			name: "unknown id is closed right away",
			testFunc: func(b *broker.ChannelBroker[string, pacing.Reveal]) {
				c, ok := <-b.Subscribe("stale")
				require.Nil(t, c)
				require.False(t, ok)
			},
		},
		{
			name: "subsequent subscribers block until producer is finished or unpublished",
			testFunc: func(b *broker.ChannelBroker[string, pacing.Reveal]) {
				id := "token"
				channel := make(chan pacing.Reveal)
				b.Publish(id, channel)
				producerFinished := atomic.Bool{}

				// First subscriber
				subscriptionChan := <-b.Subscribe(id)

				// Next subscriber
				go func() {
					nextSubscriptionChan, ok := <-b.Subscribe(id)
					assert.Nil(t, nextSubscriptionChan, "subsequent subscriber received content")
					assert.Falsef(t, ok, "channel not closed to signal producer is finished")
					assert.True(t, producerFinished.Load(), "producer not finished before subsequent subscriber unblocked")
				}()

				// Finish producer
				go func() {
					channel <- reveal
					close(channel)
					producerFinished.Store(true)
					b.Unpublish(id)
				}()
				require.Equal(t, reveal, <-subscriptionChan, "subscriber did not receive content")

				// Last subscriber
				nextSubscriptionChan, ok := <-b.Subscribe(id)
				require.Nil(t, nextSubscriptionChan, "last subscriber received content")
				require.Falsef(t, ok, "last subscriber channel not closed to signal producer is finished")
				require.True(t, producerFinished.Load(), "producer not finished before last subscriber unblocked")
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			br := broker.NewChannelBroker[string, pacing.Reveal]()
			ctx, cancel := context.WithCancel(context.Background())
			stopped := make(chan struct{})
			go func() {
				_ = br.Run(ctx)
				close(stopped)
			}()
			t.Cleanup(func() {
				cancel()
				<-stopped
			})
			tt.testFunc(br)
		})
	}
}

func TestChannelBroker_stoppedReleasesEveryone(t *testing.T) {
	br := broker.NewChannelBroker[string, pacing.Reveal]()
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = br.Run(ctx)
		close(stopped)
	}()

	br.Publish("token", make(chan pacing.Reveal))
	first := <-br.Subscribe("token")
	require.NotNil(t, first)
	waiting := br.Subscribe("token")

	cancel()
	<-stopped
	_, ok := <-waiting
	require.False(t, ok, "waiting subscriber released on stop")

	br.Publish("other", make(chan pacing.Reveal))
	_, ok = <-br.Subscribe("other")
	require.False(t, ok, "subscribing after stop returns a closed channel")
	br.Unpublish("other")
}
