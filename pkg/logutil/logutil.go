// Copyright (C) 2022  Ambassador Labs
//
// SPDX-License-Identifier: Apache-2.0

// Package logutil sets up the logger that the commands log through.
package logutil

import (
	"context"
	"io"

	"github.com/datawire/dlib/dlog"
	"github.com/google/go-containerregistry/pkg/logs"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where logs go.
type Options struct {
	// Verbose enables debug-level logging.
	Verbose bool
	// File, if set, receives a copy of everything that is logged.  The file is rotated once it
	// reaches MaxSizeMB megabytes; MaxBackups old files are kept.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger returns a logrus logger writing to stderr (and to o.File), along with a Closer that
// must be called once logging is done.
func NewLogger(o Options, stderr io.Writer) (*logrus.Logger, io.Closer) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	logger.SetLevel(logrus.InfoLevel)
	if o.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetOutput(stderr)

	if o.File == "" {
		return logger, nopCloser{}
	}
	maxSize := o.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	maxBackups := o.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 3
	}
	file := &lumberjack.Logger{
		Filename:   o.File,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
	}
	logger.SetOutput(io.MultiWriter(stderr, file))
	return logger, file
}

// WithLogger attaches logger to ctx, and points go-containerregistry's package-level loggers at
// it as well.
func WithLogger(ctx context.Context, logger *logrus.Logger) context.Context {
	ctx = dlog.WithLogger(ctx, dlog.WrapLogrus(logger))

	logs.Warn = dlog.StdLogger(ctx, dlog.LogLevelWarn)
	logs.Progress = dlog.StdLogger(ctx, dlog.LogLevelInfo)
	logs.Debug = dlog.StdLogger(ctx, dlog.LogLevelDebug)

	return ctx
}
