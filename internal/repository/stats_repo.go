package repository

import (
	"context"
	"fmt"

	"car_dealership/internal/model"
)

// StatsRepository computes dashboard counters
type StatsRepository interface {
	AdminStats(ctx context.Context) (*model.AdminStats, error)
}

type statsRepository struct {
	db DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db DB) StatsRepository {
	return &statsRepository{db: db}
}

// AdminStats reads all counters in one statement so they describe the same snapshot
func (r *statsRepository) AdminStats(ctx context.Context) (*model.AdminStats, error) {
	sql := `SELECT
            (SELECT COUNT(*) FROM cars) AS total_cars,
            (SELECT COUNT(*) FROM messages) AS total_messages,
            (SELECT COUNT(*) FROM messages WHERE NOT is_read) AS unread_messages,
            (SELECT COUNT(*) FROM users WHERE role = 'CLIENT') AS total_users`
	stats := &model.AdminStats{}
	err := r.db.QueryRow(ctx, sql).Scan(&stats.TotalCars, &stats.TotalMessages, &stats.UnreadMessages, &stats.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get admin stats: %w", err)
	}
	return stats, nil
}
