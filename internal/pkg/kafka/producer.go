package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	SendMessage(ctx context.Context, key string, message interface{}) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer connects to the first reachable broker and makes sure the topic
// exists. If no broker answers it falls back to a logging mock so the API
// keeps accepting uploads in local runs.
func NewProducer(brokers []string, topic string) Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	log := logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic})
	log.Info("Kafka producer configured")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var conn *kafka.Conn
	var err error
	for _, broker := range brokers {
		conn, err = kafka.DialContext(ctx, "tcp", broker)
		if err == nil {
			break
		}
	}
	if conn == nil {
		log.Warnf("Kafka connection failed: %v, using mock producer instead", err)
		writer.Close()
		return NewMockProducer()
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.Debugf("Could not create topic (might already exist): %v", err)
	}

	return &kafkaProducer{writer: writer, topic: topic}
}

func (p *kafkaProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: messageBytes,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logrus.Errorf("Failed to write message to Kafka: %v", err)
		return err
	}

	logrus.WithField("topic", p.topic).Debug("Message sent")
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// mockProducer keeps the API usable without Kafka
type mockProducer struct{}

// NewMockProducer returns a Producer that only logs the tasks it is given.
func NewMockProducer() Producer {
	return &mockProducer{}
}

func (m *mockProducer) SendMessage(ctx context.Context, key string, message interface{}) error {
	logrus.WithField("key", key).Infof("MOCK: message %+v", message)
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
