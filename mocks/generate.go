package mocks

//go:generate mockgen -destination=./mock_datastore.go -package=mocks github.com/ducklens-lab/trendlens/internal/datastore SnapshotStore
