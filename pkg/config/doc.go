// Package config loads magicer's configuration from defaults, an optional YAML file and the
// environment, in that order of increasing precedence.
//
// Defaults live in envDefault struct tags and are applied by github.com/caarlos0/env/v11. A YAML
// file (gopkg.in/yaml.v3, unknown keys rejected) is decoded on top, and finally every MAGICER_
// variable that is actually set is applied again, so the environment always wins. A .env file in
// the working directory is loaded into the process environment first via
// github.com/joho/godotenv.
//
//	cfg, err := config.Read("/etc/magicer.yaml")
//	if err != nil {
//	    return err
//	}
//
// Byte sizes accept human readable values ("64KiB", "10 MB"). Validate rejects nonsensical
// limits and creates the work and sandbox directories when they do not exist.
//
// Environment variables:
//
//	MAGICER_HTTP_ADDR, MAGICER_HTTP_READ_TIMEOUT, MAGICER_HTTP_WRITE_TIMEOUT, ...
//	MAGICER_LIMIT_MAX_BODY_SIZE, MAGICER_LIMIT_MAX_FILENAME_SIZE
//	MAGICER_ANALYSIS_WORK_DIR, MAGICER_ANALYSIS_MEMORY_THRESHOLD, MAGICER_ANALYSIS_BUFFER_SIZE,
//	MAGICER_ANALYSIS_MIN_FREE_SPACE, MAGICER_ANALYSIS_MMAP_FALLBACK,
//	MAGICER_ANALYSIS_CLASSIFY_TIMEOUT, MAGICER_ANALYSIS_INGEST_TIMEOUT,
//	MAGICER_ANALYSIS_TEMP_MAX_AGE, MAGICER_ANALYSIS_SWEEP_INTERVAL
//	MAGICER_SANDBOX_ROOT
//	MAGICER_AUTH_USERNAME, MAGICER_AUTH_PASSWORD
//	MAGICER_LOG_LEVEL, MAGICER_LOG_FORMAT
//	MAGICER_TRUSTED_PROXIES (comma separated)
package config
