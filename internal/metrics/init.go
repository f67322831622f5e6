package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup.
func InitializeMetrics() {
	for _, file := range []string{"main", "wal", "shm"} {
		DBSizeBytes.WithLabelValues(file)
	}

	for _, op := range []string{"find_image_by_path", "find_image_by_id", "insert_image",
		"update_image", "list_images", "catalog_stats", "initialize_schema"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, result := range []string{"success", "error", "rejected"} {
		DiscoveryRunsTotal.WithLabelValues(result)
	}

	for _, decision := range []string{"new", "reindex", "unchanged"} {
		DiscoveryFilesClassified.WithLabelValues(decision)
	}

	for _, result := range []string{"inserted", "updated", "skipped"} {
		DiscoveryOutcomes.WithLabelValues(result)
	}

	for _, op := range []string{"stat", "open"} {
		for _, vol := range []string{"media", "data", "unknown"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
