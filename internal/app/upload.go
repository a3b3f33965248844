package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/okian/energy-analytics/internal/adapters/repository"
	"github.com/okian/energy-analytics/internal/domain/dataset"
	"github.com/okian/energy-analytics/pkg/logger"
	"github.com/okian/energy-analytics/pkg/metrics"
)

// Upload rejection reasons, used as the metrics label.
const (
	RejectTooLarge   = "too_large"
	RejectDataFormat = "data_format"
	RejectRead       = "read_error"
)

// Session returns the stored session for id, refreshing its idle timer. A
// well-formed id that is not stored yet (or was swept) is reused so the
// browser keeps its cookie; a malformed one is replaced. New sessions are
// not stored until they receive an upload.
func (s *Service) Session(ctx context.Context, id string) repository.Session {
	if !repository.ValidID(id) {
		return repository.NewSession(s.now())
	}
	sess, err := s.sessions.Touch(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrSessionNotFound) {
			s.log().Warn(ctx, "session refresh failed", logger.String("session", id), logger.Error(err))
		}
		now := s.now()
		return repository.Session{ID: id, CreatedAt: now, UpdatedAt: now}
	}
	return sess
}

// Upload parses r as an energy CSV and makes it the session's dataset,
// replacing any earlier upload wholesale. On error the session is unchanged.
func (s *Service) Upload(ctx context.Context, sess repository.Session, r io.Reader, source string) (repository.Session, error) {
	if source == "" {
		source = "upload.csv"
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		metrics.RecordUploadRejected(RejectRead)
		return sess, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxUploadBytes {
		metrics.RecordUploadRejected(RejectTooLarge)
		return sess, fmt.Errorf("%w: limit is %s", ErrUploadTooLarge, humanize.IBytes(uint64(s.maxUploadBytes)))
	}

	ds, err := dataset.Parse(bytes.NewReader(data), source)
	if err != nil {
		metrics.RecordUploadRejected(RejectDataFormat)
		s.log().Info(ctx, "upload rejected", logger.String("session", sess.ID), logger.Error(err))
		return sess, err
	}
	ds.LoadedAt = s.now()

	sess.Upload = &ds
	if err := s.sessions.Put(ctx, sess); err != nil {
		return sess, fmt.Errorf("store session: %w", err)
	}

	s.uploads.Add(1)
	metrics.RecordUploadAccepted()
	s.log().Info(ctx, "dataset uploaded",
		logger.String("session", sess.ID),
		logger.String("source", source),
		logger.Int("rows", ds.Len()),
		logger.String("size", humanize.Bytes(uint64(len(data)))),
	)
	return sess, nil
}

// ClearUpload drops the session's dataset so renders fall back to the
// default file.
func (s *Service) ClearUpload(ctx context.Context, sess repository.Session) (repository.Session, error) {
	sess.Upload = nil
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return sess, fmt.Errorf("clear session: %w", err)
	}
	return sess, nil
}
