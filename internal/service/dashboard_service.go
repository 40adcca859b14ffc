package service

import (
	"time"

	"github.com/inkpress/internal/repository"
)

// DashboardStats 后台概览统计
type DashboardStats struct {
	PostsByStatus    map[string]int64 `json:"posts_by_status"`
	TotalPosts       int64            `json:"total_posts"`
	ScheduledPending int64            `json:"scheduled_pending"`
	RevisionCount    int64            `json:"revision_count"`
	GeneratedAt      time.Time        `json:"generated_at"`
}

// DashboardService 仪表盘服务
type DashboardService struct {
	postRepo     repository.PostRepository
	revisionRepo repository.RevisionRepository
	now          func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(postRepo repository.PostRepository, revisionRepo repository.RevisionRepository) *DashboardService {
	return &DashboardService{
		postRepo:     postRepo,
		revisionRepo: revisionRepo,
		now:          utcNow,
	}
}

// GetStats 获取统计数据
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	now := s.now()
	byStatus, err := s.postRepo.CountByStatus()
	if err != nil {
		return nil, internalErr("count posts", err)
	}
	pending, err := s.postRepo.CountScheduledPending(now)
	if err != nil {
		return nil, internalErr("count scheduled posts", err)
	}
	revisions, err := s.revisionRepo.CountAll()
	if err != nil {
		return nil, internalErr("count revisions", err)
	}
	var total int64
	for _, count := range byStatus {
		total += count
	}
	return &DashboardStats{
		PostsByStatus:    byStatus,
		TotalPosts:       total,
		ScheduledPending: pending,
		RevisionCount:    revisions,
		GeneratedAt:      now,
	}, nil
}
