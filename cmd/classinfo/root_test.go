package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/williampepple1/classinfo/internal/config"
	"github.com/williampepple1/classinfo/pkg/models"
)

type recordingLookup struct {
	result      models.Result
	calls       int
	classNumber string
	cfg         *config.AppConfig
}

func (r *recordingLookup) lookup(ctx context.Context, cfg *config.AppConfig, log logrus.FieldLogger, classNumber string) models.Result {
	r.calls++
	r.cfg = cfg
	r.classNumber = classNumber
	return r.result
}

func TestRunMissingClassNumber(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rec := &recordingLookup{}

	code := run(context.Background(), nil, &stdout, &stderr, rec.lookup)

	assert.NotEqual(t, 0, code)
	assert.Equal(t, `{"error":"Class number required"}`+"\n", stdout.String())
	assert.Equal(t, 0, rec.calls)
}

func TestRunFound(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rec := &recordingLookup{result: models.Found(models.ClassRecord{
		Course:      "CSE 110",
		Title:       "Principles of Programming",
		Number:      "12345",
		Instructors: []string{"Jane Doe"},
		Days:        "MWF",
		Time:        "9:00 AM - 9:50 AM",
		Location:    "Tempe",
		Dates:       "08/21 - 12/06",
		Units:       "3",
		SeatStatus:  models.SeatsOpen,
		StartTime:   "9:00 AM",
		EndTime:     "9:50 AM",
	})}

	code := run(context.Background(), []string{"12345"}, &stdout, &stderr, rec.lookup)

	require.Equal(t, 0, code)
	assert.Equal(t, "12345", rec.classNumber)
	out := stdout.String()
	require.True(t, gjson.Valid(out))
	assert.Equal(t, "CSE 110", gjson.Get(out, "course").String())
	assert.Equal(t, "Jane Doe", gjson.Get(out, "instructors.0").String())
	assert.Equal(t, "Open", gjson.Get(out, "seatStatus").String())
}

func TestRunNotFoundExitsZero(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rec := &recordingLookup{result: models.NotFound()}

	code := run(context.Background(), []string{"99999"}, &stdout, &stderr, rec.lookup)

	assert.Equal(t, 0, code)
	assert.Equal(t, `{"error":"Class not found"}`+"\n", stdout.String())
}

func TestRunConfigPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "classinfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  term: \"2261\"\n  campus: C\nlog:\n  level: warn\n"), 0o644))
	t.Setenv("CLASSINFO_TERM", "2264")
	t.Setenv("CLASSINFO_LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	rec := &recordingLookup{result: models.NotFound()}

	code := run(context.Background(),
		[]string{"--config", path, "--log-level", "debug", "--proxy", "http://127.0.0.1:3128", "12345"},
		&stdout, &stderr, rec.lookup)

	require.Equal(t, 0, code)
	require.NotNil(t, rec.cfg)
	assert.Equal(t, "2264", rec.cfg.Catalog.Term)
	assert.Equal(t, "C", rec.cfg.Catalog.Campus)
	assert.Equal(t, "debug", rec.cfg.Log.Level)
	assert.True(t, rec.cfg.Proxies.Enabled)
	assert.Equal(t, []string{"http://127.0.0.1:3128"}, rec.cfg.Proxies.List)
}

func TestRunInvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer
	rec := &recordingLookup{}

	code := run(context.Background(), []string{"--log-format", "xml", "12345"}, &stdout, &stderr, rec.lookup)

	assert.Equal(t, 1, code)
	assert.Equal(t, 0, rec.calls)
	assert.Equal(t, `{"error":"Invalid configuration"}`+"\n", stdout.String())
	assert.Contains(t, stderr.String(), "log.format")
}

func TestRunOutputFailure(t *testing.T) {
	var stderr bytes.Buffer
	rec := &recordingLookup{result: models.NotFound()}

	code := run(context.Background(), []string{"12345"}, failingWriter{}, &stderr, rec.lookup)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "write result")
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("broken pipe")
}
