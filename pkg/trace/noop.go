package trace

import "context"

// NoopExporter discards all records. Used when tracing is not configured.
type NoopExporter struct{}

var _ Exporter = (*NoopExporter)(nil)

// Export does nothing.
func (n *NoopExporter) Export(ctx context.Context, record *Record) error {
	return nil
}

// Close does nothing.
func (n *NoopExporter) Close() error {
	return nil
}
