package reports

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Headcount(ctx context.Context) ([]HeadcountRow, error) {
	return s.Store.Headcount(ctx)
}

func (s *Service) LeaveUtilisation(ctx context.Context, year int) ([]LeaveUtilisationRow, error) {
	return s.Store.LeaveUtilisation(ctx, year)
}

func (s *Service) Dashboard(ctx context.Context) (DashboardCounts, error) {
	return s.Store.Dashboard(ctx)
}

func (s *Service) JobRuns(ctx context.Context, filter JobRunFilter, limit, offset int) ([]map[string]any, error) {
	return s.Store.ListJobRuns(ctx, filter, limit, offset)
}
