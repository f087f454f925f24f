package eventlog

import (
	"github.com/swbattle/server/internal/core/event"
	"go.uber.org/zap"
)

// ZapSink mirrors every record to a logger at debug level.
type ZapSink struct {
	log *zap.Logger
}

func NewZapSink(log *zap.Logger) *ZapSink {
	return &ZapSink{log: log}
}

func (s *ZapSink) Publish(r event.Record) {
	if ce := s.log.Check(zap.DebugLevel, r.Event.Name()); ce != nil {
		fields := make([]zap.Field, 0, len(r.Event.Fields())+1)
		fields = append(fields, zap.Uint32("turn", r.Turn))
		for _, f := range r.Event.Fields() {
			fields = append(fields, zap.Any(f.Key, f.Value))
		}
		ce.Write(fields...)
	}
}
