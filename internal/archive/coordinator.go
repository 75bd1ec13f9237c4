package archive

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/cacack/go-eventstore/internal/domain"
	"github.com/cacack/go-eventstore/internal/store"
)

// Coordinator walks candidate streams and dispatches each to
// ArchiveAndPrune, ArchivePreserving, or HardDelete based on
// RetentionMode.
type Coordinator struct {
	transactor store.ArchiveTransactor
	fileStore  *FileStore
	log        logrus.FieldLogger
}

// NewCoordinator builds a Coordinator. log may be nil, in which case a
// discarding logger is used.
func NewCoordinator(transactor store.ArchiveTransactor, fileStore *FileStore, log logrus.FieldLogger) *Coordinator {
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = discard
	}
	return &Coordinator{transactor: transactor, fileStore: fileStore, log: log}
}

// Archive runs one idempotent archival pass: enumerate
// candidate streams, then dispatch each sequentially. A stream that
// fails to archive is logged and skipped; the batch continues.
func (c *Coordinator) Archive(ctx context.Context) error {
	candidates, err := c.transactor.ListCandidateStreams(ctx)
	if err != nil {
		return fmt.Errorf("archive: list candidate streams: %w", err)
	}

	for _, header := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}

		var dispatchErr error
		switch header.RetentionMode {
		case domain.ColdArchivable:
			dispatchErr = c.archiveStream(ctx, header, true)
		case domain.FullHistory:
			dispatchErr = c.archiveStream(ctx, header, false)
		case domain.HardDeletable:
			dispatchErr = c.transactor.HardDelete(ctx, header.Domain, header.StreamID)
		default:
			continue
		}

		if dispatchErr != nil {
			c.log.WithFields(logrus.Fields{
				"domain":         header.Domain,
				"stream_id":      header.StreamID,
				"retention_mode": header.RetentionMode.String(),
				"err":            dispatchErr,
			}).Warn("archive: skipping stream after error")
		}
	}
	return nil
}

// archiveStream implements ArchiveAndPrune (prune=true) and
// ArchivePreserving (prune=false) for a single stream.
func (c *Coordinator) archiveStream(ctx context.Context, header domain.StreamHeader, prune bool) error {
	if header.ArchiveCutoffVersion == nil || *header.ArchiveCutoffVersion <= 0 {
		return nil
	}
	cutoff := *header.ArchiveCutoffVersion

	events, err := c.transactor.ReadUpToVersion(ctx, header.Domain, header.StreamID, cutoff)
	if err != nil {
		return fmt.Errorf("archive: read events up to cutoff: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	minPos := events[0].GlobalPosition
	maxPos := events[len(events)-1].GlobalPosition
	var namespace *string
	if events[0].Namespace != "" {
		ns := events[0].Namespace
		namespace = &ns
	}

	req := store.ArchiveRequest{
		Domain:      header.Domain,
		StreamID:    header.StreamID,
		MinPosition: minPos,
		MaxPosition: maxPos,
		Namespace:   namespace,
		Prune:       prune,
		WriteFile: func() (string, error) {
			return c.fileStore.WriteSegment(events, minPos, maxPos)
		},
	}

	skipped, err := c.transactor.CommitArchive(ctx, req)
	if err != nil {
		return fmt.Errorf("archive: commit archive for stream %s/%s: %w", header.Domain, header.StreamID, err)
	}
	if skipped {
		c.log.WithFields(logrus.Fields{
			"domain":    header.Domain,
			"stream_id": header.StreamID,
		}).Debug("archive: range already archived, skipping")
	}
	return nil
}
