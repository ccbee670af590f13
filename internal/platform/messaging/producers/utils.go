package producers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

const partitionReadAttempts = 5

// ensureTopic makes sure the notification topic exists before the producer
// starts publishing dispatch requests. Reading partitions right after broker
// startup is flaky, so the read is retried before concluding the topic is
// missing and creating it.
func ensureTopic(conn *kafka.Conn, topicName string, numPartitions int, replicationFactor int, log *slog.Logger) error {
	var partitions []kafka.Partition
	var err error

	for attempt := 1; attempt <= partitionReadAttempts; attempt++ {
		partitions, err = conn.ReadPartitions(topicName)
		if err == nil {
			break
		}
		log.Warn("Failed to read topic partitions",
			"topic", topicName,
			"attempt", attempt,
			"error", err,
		)
		time.Sleep(2 * time.Second)
	}

	if len(partitions) > 0 {
		log.Info("Notification topic already exists", "topic", topicName)
		return nil
	}

	if numPartitions <= 0 {
		numPartitions = 1
	}
	if replicationFactor <= 0 {
		replicationFactor = 1
	}

	log.Info("Creating notification topic",
		"topic", topicName,
		"partitions", numPartitions,
		"replication_factor", replicationFactor,
	)
	topicConfig := kafka.TopicConfig{
		Topic:             topicName,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}
	if err := conn.CreateTopics(topicConfig); err != nil {
		return fmt.Errorf("failed to create kafka topic %s: %w", topicName, err)
	}

	return nil
}
