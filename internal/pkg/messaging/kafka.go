package messaging

import (
	"context"
	"encoding/json"

	"github.com/cenkalti/backoff/v4"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type outbound struct {
	topic string
	key   string
	env   Envelope
}

// KafkaWriter is the subset of kafka.Writer the producer needs.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes envelopes through a buffered queue drained by a single
// background loop, so callers never block on the broker.
type Producer struct {
	writer    KafkaWriter
	outbox    chan outbound
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer connects to the brokers, provisions the given topics if they
// do not exist yet, and starts the send loop.
func NewProducer(brokers []string, logger *zap.Logger, topics ...string) (*Producer, error) {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	configs := make([]kafka.TopicConfig, 0, len(topics))
	for _, t := range topics {
		configs = append(configs, kafka.TopicConfig{
			Topic:             t,
			NumPartitions:     3,
			ReplicationFactor: 1,
		})
	}
	if len(configs) > 0 {
		if err := conn.CreateTopics(configs...); err != nil {
			logger.Warn("failed to create topics (may already exist)", zap.Error(err))
		}
	}

	p := &Producer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		outbox:    make(chan outbound, 1000),
		logger:    logger.Named("producer"),
		closeChan: make(chan struct{}),
	}

	go p.sendLoop()
	return p, nil
}

// Publish enqueues the envelope. When the queue is full the message is
// dropped and logged; there is no outbox table backing this path.
func (p *Producer) Publish(topic, key string, env Envelope) {
	select {
	case p.outbox <- outbound{topic: topic, key: key, env: env}:
	default:
		p.logger.Warn("producer queue full, dropping message",
			zap.String("topic", topic),
			zap.String("kind", env.Kind),
		)
	}
}

func (p *Producer) sendLoop() {
	for {
		select {
		case out := <-p.outbox:
			p.send(context.Background(), out)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) send(ctx context.Context, out outbound) {
	value, err := json.Marshal(out.env)
	if err != nil {
		p.logger.Error("failed to serialize envelope",
			zap.Error(err),
			zap.String("kind", out.env.Kind),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: out.topic,
		Key:   []byte(out.key),
		Value: value,
	})
	if err != nil {
		p.logger.Error("failed to publish message",
			zap.Error(err),
			zap.String("topic", out.topic),
			zap.String("kind", out.env.Kind),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("failed to close kafka writer", zap.Error(err))
	}
}

// Consumer reads one topic with one handler. Each service owns one consumer
// per subscribed topic, all sharing the service's group id.
type Consumer struct {
	reader  *kafka.Reader
	logger  *zap.Logger
	handler Handler
}

func NewConsumer(brokers []string, groupID, topic string, handler Handler, logger *zap.Logger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
			Dialer:  kafka.DefaultDialer,
		}),
		logger:  logger.Named("consumer").With(zap.String("topic", topic)),
		handler: handler,
	}
}

// Start launches the consume loop and returns; the loop runs until ctx is
// cancelled. A failing handler is retried with
// exponential backoff; if it still fails the message is committed and
// skipped, since a later commit would advance the group offset past it
// anyway.
func (c *Consumer) Start(ctx context.Context) {
	go func() {
		for {
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("failed to fetch message", zap.Error(err))
				continue
			}

			var env Envelope
			if err := json.Unmarshal(msg.Value, &env); err != nil {
				c.logger.Error("failed to parse envelope",
					zap.Error(err),
					zap.ByteString("value", msg.Value),
				)
				// Poison message, commit so it does not wedge the partition.
				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.logger.Error("failed to commit poison message", zap.Error(err))
				}
				continue
			}

			if err := c.handle(ctx, env); err != nil {
				c.logger.Error("handler failed after retries, skipping message",
					zap.Error(err),
					zap.String("kind", env.Kind),
					zap.String("id", env.ID),
				)
				if err := c.reader.CommitMessages(ctx, msg); err != nil {
					c.logger.Error("failed to commit skipped message", zap.Error(err))
				}
				continue
			}

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				c.logger.Error("failed to commit message",
					zap.Error(err),
					zap.String("kind", env.Kind),
				)
			}
		}
	}()
}

func (c *Consumer) handle(ctx context.Context, env Envelope) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	return backoff.Retry(func() error {
		return c.handler(ctx, env)
	}, policy)
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Error("failed to close kafka reader", zap.Error(err))
	}
}
