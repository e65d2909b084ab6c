// Package export renders card collections into a single zip archive.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/sirupsen/logrus"

	"github.com/ds124wfegd/cardforge/internal/entity"
	"github.com/ds124wfegd/cardforge/internal/pkg/processor"
	"github.com/ds124wfegd/cardforge/internal/pkg/render"
)

// Progress is called after every record with the 1-based count of finished records.
type Progress func(current, total int, message string)

// CachePersister stores a record whose render cache was just refreshed.
type CachePersister func(ctx context.Context, card *entity.Card) error

type Options struct {
	Renderer *render.Renderer
	Lookup   processor.AssetLookup
	Encoder  processor.Encoder
	Persist  CachePersister
	// Sidecars adds {index}.json with the record (cache stripped) next to its images.
	Sidecars bool
	// UseCache reuses a record's cached PNG when its fingerprint still matches.
	UseCache bool
	Log      logrus.FieldLogger
	Now      func() time.Time
}

// Issue is a non-fatal problem with one record.
type Issue struct {
	Index  int    `json:"index"`
	CardID string `json:"cardId"`
	Reason string `json:"reason"`
}

type Report struct {
	Entries  []string `json:"entries"`
	Rendered int      `json:"rendered"`
	Cached   int      `json:"cached"`
	// Warnings are photo layers that were skipped or caches that could not be persisted.
	Warnings []Issue `json:"warnings,omitempty"`
	// Omitted are records left out of the archive because encoding failed.
	Omitted []Issue `json:"omitted,omitempty"`
}

type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	if opts.Renderer == nil {
		opts.Renderer = render.NewRenderer(render.DefaultTemplate)
	}
	if opts.Encoder == nil {
		opts.Encoder = processor.EncodePNG
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Exporter{opts: opts}
}

// ExportAll exports records with default options.
func ExportAll(ctx context.Context, records []*entity.Card, lookup processor.AssetLookup, progress Progress) ([]byte, *Report, error) {
	return New(Options{Lookup: lookup}).ExportAll(ctx, records, progress)
}

// EntryName is the archive name of one copy of the record at index. Copy 0 is the
// record itself, copies 1..amount-1 are the extra prints.
func EntryName(index, copy int) string {
	if copy == 0 {
		return fmt.Sprintf("%d.png", index)
	}
	return fmt.Sprintf("%d-%d.png", index, copy)
}

func sidecarName(index int) string {
	return fmt.Sprintf("%d.json", index)
}

// ExportAll renders the records in order into one archive. Records are rendered one at a
// time onto a single reused surface. After each record its encoded image is written back
// as the record's cache and progress is reported. The context is checked between records.
// On error no archive is returned.
func (e *Exporter) ExportAll(ctx context.Context, records []*entity.Card, progress Progress) ([]byte, *Report, error) {
	var buf bytes.Buffer
	report, err := e.ExportTo(ctx, &buf, records, progress)
	if err != nil {
		return nil, report, err
	}
	return buf.Bytes(), report, nil
}

// ExportTo is ExportAll writing the archive to w. After an error w holds an incomplete
// archive and must be discarded.
func (e *Exporter) ExportTo(ctx context.Context, w io.Writer, records []*entity.Card, progress Progress) (*Report, error) {
	report := &Report{}
	tpl := e.opts.Renderer.Template()
	surface := e.opts.Renderer.NewSurface()

	zw := zip.NewWriter(w)
	modified := e.opts.Now()

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		log := e.opts.Log.WithFields(logrus.Fields{"index": i, "card_id": rec.ID})
		hash := render.Fingerprint(rec, tpl)

		var data []byte
		if e.opts.UseCache && rec.RenderHash == hash && len(rec.Base64) > 0 {
			data = rec.Base64
			report.Cached++
		} else {
			photo, photoErr := processor.ResolvePhoto(ctx, e.opts.Lookup, rec, log)
			if photoErr != nil {
				report.Warnings = append(report.Warnings, Issue{Index: i, CardID: rec.ID, Reason: photoErr.Error()})
			}
			e.opts.Renderer.Render(surface, rec, photo)

			var encoded bytes.Buffer
			if err := e.opts.Encoder(&encoded, surface); err != nil {
				log.WithError(err).Warn("encode failed, record omitted")
				report.Omitted = append(report.Omitted, Issue{Index: i, CardID: rec.ID, Reason: err.Error()})
				e.notify(progress, i+1, len(records), fmt.Sprintf("omitted card %d", i))
				continue
			}
			data = encoded.Bytes()
			report.Rendered++

			// a render missing a photo that may still resolve later is not cached
			if processor.PhotoSettled(photoErr) {
				e.storeCache(ctx, log, report, i, rec, data, hash)
			}
		}

		for n := 0; n < rec.Copies(); n++ {
			name := EntryName(i, n)
			if err := writeEntry(zw, name, zip.Store, modified, data); err != nil {
				return report, err
			}
			report.Entries = append(report.Entries, name)
		}
		if e.opts.Sidecars {
			sidecar, err := json.MarshalIndent(rec.WithoutCache(), "", "  ")
			if err != nil {
				return report, fmt.Errorf("%w: sidecar %d: %v", entity.ErrArchiveFailure, i, err)
			}
			if err := writeEntry(zw, sidecarName(i), zip.Deflate, modified, sidecar); err != nil {
				return report, err
			}
			report.Entries = append(report.Entries, sidecarName(i))
		}

		e.notify(progress, i+1, len(records), fmt.Sprintf("exported card %d of %d", i+1, len(records)))
	}

	if err := zw.Close(); err != nil {
		return report, fmt.Errorf("%w: finalize: %v", entity.ErrArchiveFailure, err)
	}
	return report, nil
}

func (e *Exporter) storeCache(ctx context.Context, log logrus.FieldLogger, report *Report, index int, rec *entity.Card, data []byte, hash string) {
	rec.Base64 = data
	rec.RenderHash = hash
	if e.opts.Persist == nil {
		return
	}
	if err := e.opts.Persist(ctx, rec); err != nil {
		log.WithError(err).Warn("could not persist render cache")
		report.Warnings = append(report.Warnings, Issue{Index: index, CardID: rec.ID, Reason: "cache not persisted: " + err.Error()})
	}
}

func (e *Exporter) notify(progress Progress, current, total int, msg string) {
	if progress != nil {
		progress(current, total, msg)
	}
}

func writeEntry(zw *zip.Writer, name string, method uint16, modified time.Time, data []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: method, Modified: modified})
	if err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrArchiveFailure, name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("%w: %s: %v", entity.ErrArchiveFailure, name, err)
	}
	return nil
}
