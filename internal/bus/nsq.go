package bus

import (
	"context"
	"fmt"

	"github.com/nsqio/go-nsq"
)

// NSQ implements Bus on top of an nsqd producer and per-topic consumers
// discovered through nsqlookupd.
type NSQ struct {
	producer  *nsq.Producer
	lookupd   string
	consumers []*nsq.Consumer
}

func NewNSQ(producer *nsq.Producer, lookupd string) *NSQ {
	return &NSQ{producer: producer, lookupd: lookupd}
}

func (b *NSQ) Publish(topic string, body []byte) error {
	return b.producer.Publish(topic, body)
}

func (b *NSQ) Subscribe(topic, channel string, h HandlerFunc) error {
	consumer, err := nsq.NewConsumer(topic, channel, nsq.NewConfig())
	if err != nil {
		return fmt.Errorf("nsq consumer %s/%s: %w", topic, channel, err)
	}

	consumer.AddHandler(nsq.HandlerFunc(func(m *nsq.Message) error {
		return h(context.Background(), m.Body)
	}))

	if err := consumer.ConnectToNSQLookupd(b.lookupd); err != nil {
		return fmt.Errorf("nsq lookupd connect %s: %w", topic, err)
	}

	b.consumers = append(b.consumers, consumer)
	return nil
}

// Stop drains consumers first so in-flight handlers finish before the
// producer goes away.
func (b *NSQ) Stop() {
	for _, c := range b.consumers {
		c.Stop()
	}
	for _, c := range b.consumers {
		<-c.StopChan
	}
	b.producer.Stop()
}
