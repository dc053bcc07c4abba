package database

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kbukum/scribe/logger"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"ERROR":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"verbose": gormlogger.Info,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestQueryLoggerCarriesRecordingID(t *testing.T) {
	var buf bytes.Buffer
	ql := newGormLogger(logger.NewWithWriter(&buf, "scribe"), time.Millisecond, gormlogger.Warn)
	ctx := logger.ContextWithRecordingID(context.Background(), "call-1")
	sql := func() (string, int64) { return "SELECT * FROM transcriptions", 1 }

	ql.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	out := buf.String()
	for _, want := range []string{`"message":"Slow query"`, `"recording_id":"call-1"`, `"component":"database"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}

	buf.Reset()
	ql.Trace(ctx, time.Now(), sql, errors.New("disk I/O error"))
	if !strings.Contains(buf.String(), `"message":"Query failed"`) || !strings.Contains(buf.String(), `"error":"disk I/O error"`) {
		t.Errorf("expected a failed query entry, got %s", buf.String())
	}
}

func TestQueryLoggerQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	ql := newGormLogger(logger.NewWithWriter(&buf, "scribe"), time.Hour, gormlogger.Warn)
	sql := func() (string, int64) { return "SELECT 1", 0 }

	ql.Trace(context.Background(), time.Now(), sql, gorm.ErrRecordNotFound)
	ql.Trace(context.Background(), time.Now(), sql, nil)
	ql.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), sql, errors.New("boom"))
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
}
