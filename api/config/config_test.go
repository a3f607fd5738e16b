package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVICE_PORT", "KAFKA_BROKERS", "KAFKA_TOPIC", "MAX_FILE_SIZE", "UPLOAD_DIR", "CORS_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "5000" {
		t.Errorf("Expected port 5000, got %s", cfg.Port)
	}
	if cfg.KafkaTopic != "dubbing_jobs" {
		t.Errorf("Expected topic dubbing_jobs, got %s", cfg.KafkaTopic)
	}
	if cfg.MaxFileSize != 524288000 {
		t.Errorf("Expected 500MiB limit, got %d", cfg.MaxFileSize)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("Unexpected CORS origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_Lists(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	cfg := Load()

	brokers := cfg.Brokers()
	if len(brokers) != 2 || brokers[1] != "kafka-2:9092" {
		t.Errorf("Unexpected brokers %v", brokers)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("Unexpected CORS origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidMaxFileSize(t *testing.T) {
	t.Setenv("MAX_FILE_SIZE", "lots")

	if cfg := Load(); cfg.MaxFileSize != 524288000 {
		t.Errorf("Expected default limit, got %d", cfg.MaxFileSize)
	}
}
