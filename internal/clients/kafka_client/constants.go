package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_REQUESTS = "analysis-requests" // video analysis jobs
	KAFKA_TOPIC_ANALYSIS_RESULTS  = "analysis-results"  // one result per job, summary included on success
)

const (
	BATCH_TIMEOUT = 5 * time.Second
	MAX_RETRIES   = 5
	RETRY_DELAY   = 2 * time.Second
	POLL_TIMEOUT  = 1 * time.Second
)
