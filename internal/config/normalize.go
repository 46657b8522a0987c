package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeBackend()
	c.normalizeAnalyzer()
	c.normalizeOptimizer()
	c.normalizeScheduler()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = filepath.Join(c.Paths.DataDir, "work")
	} else if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	} else if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	if c.Storage.AccessKey == "" {
		if value, ok := os.LookupEnv("MEDIAPRESS_S3_ACCESS_KEY"); ok {
			c.Storage.AccessKey = strings.TrimSpace(value)
		}
	}
	if c.Storage.SecretKey == "" {
		if value, ok := os.LookupEnv("MEDIAPRESS_S3_SECRET_KEY"); ok {
			c.Storage.SecretKey = strings.TrimSpace(value)
		}
	}
	c.Storage.Endpoint = strings.TrimSpace(c.Storage.Endpoint)
	c.Storage.Bucket = strings.TrimSpace(c.Storage.Bucket)
	c.Storage.Region = strings.TrimSpace(c.Storage.Region)
}

func (c *Config) normalizeBackend() {
	c.Backend.URL = strings.TrimSpace(c.Backend.URL)
	c.Backend.AuthToken = strings.TrimSpace(c.Backend.AuthToken)
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultBackendTimeout
	}
}

func (c *Config) normalizeAnalyzer() {
	c.Analyzer.URL = strings.TrimSpace(c.Analyzer.URL)
	if c.Analyzer.RequestTimeout <= 0 {
		c.Analyzer.RequestTimeout = defaultAnalyzerTimeout
	}
}

func (c *Config) normalizeOptimizer() {
	c.Optimizer.Command = strings.TrimSpace(c.Optimizer.Command)
	c.Optimizer.OutputExt = strings.TrimSpace(c.Optimizer.OutputExt)
	if c.Optimizer.OutputExt == "" {
		c.Optimizer.OutputExt = defaultOptimizerExt
	}
	if !strings.HasPrefix(c.Optimizer.OutputExt, ".") {
		c.Optimizer.OutputExt = "." + c.Optimizer.OutputExt
	}
	if c.Optimizer.Timeout < 0 {
		c.Optimizer.Timeout = 0
	}
}

func (c *Config) normalizeScheduler() {
	if c.Scheduler.PopTimeout <= 0 {
		c.Scheduler.PopTimeout = defaultPopTimeout
	}
	if c.Scheduler.RenotifyInterval <= 0 {
		c.Scheduler.RenotifyInterval = defaultRenotifyInterval
	}
	if c.Scheduler.RenotifyBatch <= 0 {
		c.Scheduler.RenotifyBatch = defaultRenotifyBatch
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
