package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/toxicdevil0/timeout/backend/go-services/pkg/logger"
	"github.com/toxicdevil0/timeout/backend/go-services/pkg/metrics"
)

const insertTimeout = 5 * time.Second

// MongoRecorder persists security events to a Mongo collection.
// Writes happen on a background goroutine detached from the request context,
// so a slow or failing sink never delays the call it describes. A flood
// guard caps the write rate; events beyond it are dropped (and counted),
// since the log recorder still carries them.
type MongoRecorder struct {
	col   *mongo.Collection
	guard *rate.Limiter
}

func NewMongoRecorder(col *mongo.Collection) *MongoRecorder {
	return &MongoRecorder{
		col:   col,
		guard: rate.NewLimiter(rate.Limit(20), 50),
	}
}

func (r *MongoRecorder) Record(ctx context.Context, e Event) {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	if !r.guard.Allow() {
		metrics.AuditEventsDropped.Inc()
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), insertTimeout)
		defer cancel()
		if _, err := r.col.InsertOne(ctx, e); err != nil {
			logger.Warnf("failed to persist security event kind=%s: %v", e.Kind, err)
		}
	}()
}
