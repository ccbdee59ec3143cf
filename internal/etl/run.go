package etl

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"songplays/internal/config"
	"songplays/internal/datasource"
	"songplays/internal/datasource/file"
	"songplays/internal/metrics"
	"songplays/internal/storage"
)

// Run executes the whole pipeline against repo: every song-metadata file under
// the song tree, then every activity-log file under the log tree. Each file is
// processed inside its own transaction; the first failure aborts the run with
// everything up to the previous file already committed.
func Run(ctx context.Context, cfg config.Pipeline, repo storage.Repository) error {
	if cfg.Storage.DB.AutoCreateSchema {
		if err := storage.EnsureSchema(ctx, cfg.Storage.Kind, repo); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	if err := processTree(ctx, cfg.Job, "songs", cfg.Source.SongData, repo, ProcessSongFile); err != nil {
		return err
	}

	return processTree(ctx, cfg.Job, "logs", cfg.Source.LogData, repo, func(ctx context.Context, sess storage.Session, r io.Reader) error {
		sum, err := ProcessLogFile(ctx, sess, r)
		metrics.RecordRow(cfg.Job, "events", sum.Events)
		metrics.RecordRow(cfg.Job, "excluded", sum.Excluded)
		metrics.RecordRow(cfg.Job, "unresolved", sum.Unresolved)
		metrics.RecordRow(cfg.Job, "facts", sum.Facts)
		metrics.RecordRow(cfg.Job, "users", sum.Users)
		return err
	})
}

// processTree discovers the JSON files under root and feeds each one through
// fn inside its own per-file session.
func processTree(ctx context.Context, job, step, root string, repo storage.Repository, fn func(context.Context, storage.Session, io.Reader) error) error {
	start := time.Now()
	paths, err := file.DiscoverJSON(root)
	if err != nil {
		metrics.RecordStep(job, step, err, time.Since(start))
		return fmt.Errorf("discover %s: %w", root, err)
	}
	log.Printf("%d files found in %s", len(paths), root)

	var done int
	for _, p := range paths {
		if err := processOne(ctx, repo, file.NewLocal(p), fn); err != nil {
			metrics.RecordStep(job, step, err, time.Since(start))
			return fmt.Errorf("process %s: %w", p, err)
		}
		done++
		metrics.RecordFiles(job, 1)
		log.Printf("%d/%d files processed.", done, len(paths))
	}

	metrics.RecordStep(job, step, nil, time.Since(start))
	return nil
}

// processOne runs fn over one source file inside its own transaction. The
// transaction commits only when fn succeeds; any error rolls it back.
func processOne(ctx context.Context, repo storage.Repository, src datasource.Source, fn func(context.Context, storage.Session, io.Reader) error) error {
	r, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	sess, err := repo.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, sess, r); err != nil {
		_ = sess.Rollback(ctx)
		return err
	}
	return sess.Commit(ctx)
}
