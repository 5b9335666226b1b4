// Package archive persists generated report documents in object storage.
package archive

import (
	"context"
	"strings"

	"github.com/collegeprep/notifier/internal/pkg/instrument"
	"github.com/collegeprep/notifier/internal/pkg/storage"
	"go.opentelemetry.io/otel/codes"
)

type Archive struct {
	store  storage.Storage
	bucket string
	ins    instrument.Instrumentation
}

func New(store storage.Storage, bucket string, ins instrument.Instrumentation) *Archive {
	return &Archive{store: store, bucket: bucket, ins: ins}
}

// PutHTML stores an HTML document under the given key and returns the key.
func (a *Archive) PutHTML(ctx context.Context, key, html string) (string, error) {
	ctx, span := a.ins.Tracer("mailer.outbound.archive").Start(ctx, "PutHTML")
	defer span.End()

	_, err := a.store.PutObject(ctx, a.bucket, key, strings.NewReader(html), storage.PutOptions{
		Size:        int64(len(html)),
		ContentType: "text/html; charset=utf-8",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return key, nil
}
