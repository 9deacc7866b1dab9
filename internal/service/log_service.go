package service

import (
	"context"
	"errors"
	"fmt"

	"enterprise-assistant-be/internal/dto"
	"enterprise-assistant-be/internal/pkg/logger"
)

type ILogService interface {
	ListLogs(ctx context.Context, req *dto.ListLogsRequest) ([]*dto.LogListResponse, error)
	GetLog(ctx context.Context, id string) (*dto.LogDetailResponse, error)
}

type logService struct {
	logger logger.ILogger
}

func NewLogService(log logger.ILogger) ILogService {
	return &logService{logger: log}
}

func (s *logService) ListLogs(ctx context.Context, req *dto.ListLogsRequest) ([]*dto.LogListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 50
	}

	entries, err := s.logger.GetLogs(req.Level, limit, req.Offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.LogListResponse, 0, len(entries))
	for _, e := range entries {
		res = append(res, &dto.LogListResponse{
			Id:        e.Id,
			Level:     e.Level,
			Module:    e.Module,
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	return res, nil
}

func (s *logService) GetLog(ctx context.Context, id string) (*dto.LogDetailResponse, error) {
	entry, err := s.logger.GetLogById(id)
	if err != nil {
		if errors.Is(err, logger.ErrLogNotFound) {
			return nil, fmt.Errorf("log %s: %w", id, ErrNotFound)
		}
		return nil, err
	}

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        entry.Id,
			Level:     entry.Level,
			Module:    entry.Module,
			Message:   entry.Message,
			Timestamp: entry.Timestamp,
		},
		Details: entry.Details,
	}, nil
}
