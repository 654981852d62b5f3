package reportpublisherv1

import "context"

// ReportPublisher delivers encoded trader notifications.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=reportpublisherv1_mock
type ReportPublisher interface {
	// Publish sends payload to the trader identified by traderID.
	Publish(ctx context.Context, traderID string, payload []byte) error
	Close() error
}
