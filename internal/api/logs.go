package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/lightnode/internal/api/models"
	"github.com/smazurov/lightnode/internal/logging"
)

var logLevelRank = map[string]int{"debug": 0, "info": 1, "warn": 2, "error": 3}

// registerLogRoutes registers the buffered log history endpoint.
func (s *Server) registerLogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "get-logs",
		Method:      http.MethodGet,
		Path:        "/api/logs",
		Summary:     "Recent Logs",
		Description: "Return the most recent log entries kept in memory, optionally filtered by module and minimum level",
		Tags:        []string{"logs"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, func(_ context.Context, input *models.LogsRequest) (*models.LogsResponse, error) {
		entries := filterLogs(logging.GetBuffer(), input.Module, input.Level, input.Limit)
		return &models.LogsResponse{
			Body: models.LogsData{
				Entries: entries,
				Count:   len(entries),
			},
		}, nil
	})
}

// filterLogs returns the newest limit entries matching module and level,
// oldest first. A limit <= 0 means no limit.
func filterLogs(buffer *logging.RingBuffer, module, level string, limit int) []logging.LogEntry {
	result := []logging.LogEntry{}
	if buffer == nil {
		return result
	}

	minRank := logLevelRank[strings.ToLower(level)]
	for _, entry := range buffer.ReadAll() {
		if module != "" && entry.Module != module {
			continue
		}
		if logLevelRank[entry.Level] < minRank {
			continue
		}
		result = append(result, entry)
	}
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result
}
