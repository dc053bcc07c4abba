// Package storage provides object storage for uploaded recordings.
//
// Backends register themselves with RegisterFactory from their init
// function; import the ones you need:
//
//	import (
//	    _ "github.com/kbukum/scribe/storage/local"
//	    _ "github.com/kbukum/scribe/storage/s3"
//	)
//
//	store, err := storage.New(ctx, cfg, log)
//	path, cleanup, err := storage.DownloadToTemp(ctx, store, "uploads/call.m4a", "", cfg.MaxFileSize)
//	defer cleanup()
package storage
