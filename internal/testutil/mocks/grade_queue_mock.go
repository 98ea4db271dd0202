package mocks

import (
	"github.com/stretchr/testify/mock"
	"github.com/vytor/kanjiflash/internal/models"
)

// MockGradeQueue is a mock implementation of jobs.GradeQueue. When Dispatch
// succeeds the report callback is invoked with ReportErr, synchronously.
type MockGradeQueue struct {
	mock.Mock
	ReportErr error
}

func (m *MockGradeQueue) Dispatch(sub models.GradeSubmission, report func(error)) error {
	args := m.Called(sub)
	err := args.Error(0)
	if err == nil && report != nil {
		report(m.ReportErr)
	}
	return err
}

func (m *MockGradeQueue) Pending() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockGradeQueue) Capacity() int {
	args := m.Called()
	return args.Int(0)
}
