// Package telemetry sets up diagnostic logging on stderr. Nothing logged here
// is part of the tool's output contract.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shirou/gopsutil/v4/process"
	"github.com/sirupsen/logrus"
	"github.com/williampepple1/classinfo/internal/config"
)

// NewLogger builds a logrus logger writing timestamped lines to out
func NewLogger(cfg *config.LogConfig, out io.Writer) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(out)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)

	switch cfg.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339Nano,
			DisableColors:   true,
		})
	}
	return log, nil
}

// Stage tags a log entry with a pipeline stage marker
func Stage(log logrus.FieldLogger, stage string) *logrus.Entry {
	return log.WithField("stage", stage)
}

// MemoryUsage is a snapshot of this process's memory in MB
type MemoryUsage struct {
	RSS float64 `json:"rss"`
	VMS float64 `json:"vms"`
}

// ReadMemoryUsage samples resident and virtual memory of the current process
func ReadMemoryUsage() (MemoryUsage, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return MemoryUsage{}, err
	}
	info, err := proc.MemoryInfo()
	if err != nil {
		return MemoryUsage{}, err
	}
	return MemoryUsage{
		RSS: toMB(info.RSS),
		VMS: toMB(info.VMS),
	}, nil
}

// TrackMemory logs a MEMORY_TRACK line labelled with where it was taken.
// Probe failures are logged and reported as zero usage.
func TrackMemory(log logrus.FieldLogger, label string) {
	usage, err := ReadMemoryUsage()
	if err != nil {
		Stage(log, "MEMORY_ERROR").Warn(err)
	}
	Stage(log, "MEMORY_TRACK").
		WithField("rss_mb", usage.RSS).
		WithField("vms_mb", usage.VMS).
		Debug(label)
}

func toMB(n uint64) float64 {
	mb := float64(n) / (1024 * 1024)
	return float64(int64(mb*100+0.5)) / 100
}
