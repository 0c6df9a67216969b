package kafka_client

import "os"

type KafkaConfig struct {
	Broker          string
	GroupID         string
	RequestTopic    string
	ResultTopic     string
	TransactionalID string
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func GetKafkaConfig() KafkaConfig {
	return KafkaConfig{
		Broker:          getEnv("KAFKA_BROKER", "localhost:29092"),
		GroupID:         getEnv("KAFKA_CONSUMER_GROUP_ID", "commentflow-worker-group"),
		RequestTopic:    getEnv("KAFKA_REQUEST_TOPIC", KAFKA_TOPIC_ANALYSIS_REQUESTS),
		ResultTopic:     getEnv("KAFKA_RESULT_TOPIC", KAFKA_TOPIC_ANALYSIS_RESULTS),
		TransactionalID: getEnv("KAFKA_TRANSACTIONAL_ID", "commentflow-producer-1"),
	}
}
