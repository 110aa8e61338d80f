package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/verte-zerg/vocatype/internal/model"
	"github.com/verte-zerg/vocatype/internal/review"
)

// MockReviews is a mock implementation of api.Reviews.
type MockReviews struct {
	mock.Mock
}

func (m *MockReviews) SubmitBatch(ctx context.Context, userID int64, items []review.Item) ([]model.LearningProgress, error) {
	args := m.Called(ctx, userID, items)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LearningProgress), args.Error(1)
}

func (m *MockReviews) Due(ctx context.Context, userID int64, limit int) ([]model.DueItem, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DueItem), args.Error(1)
}
