// Package mocks holds testify mocks shared by service and handler tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/verte-zerg/vocatype/internal/model"
)

// MockReviewRepository is a mock implementation of review.Repository.
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) GetWordsByID(ctx context.Context, ids []int64) (map[int64]model.Word, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]model.Word), args.Error(1)
}

func (m *MockReviewRepository) ListProgress(ctx context.Context, userID int64) ([]model.LearningProgress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LearningProgress), args.Error(1)
}

func (m *MockReviewRepository) SaveProgressBatch(ctx context.Context, batch []model.LearningProgress) error {
	args := m.Called(ctx, batch)
	return args.Error(0)
}
