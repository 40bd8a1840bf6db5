package service

import (
	"context"
	"slices"
	"time"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/report"
	"github.com/padipos/padipos/internal/transport"
)

// ReportService feeds the requester's orders through the aggregator.
type ReportService struct {
	Orders *OrderService
}

func (s *ReportService) rows(ctx context.Context, req Requester, f report.Filter) ([]report.Row, error) {
	var of models.OrderFilter
	if f.ExcludeArchived {
		archived := false
		of.Archived = &archived
	}

	orders, err := s.Orders.List(ctx, req, of)
	if err != nil {
		return nil, err
	}
	return slices.Collect(f.Apply(report.Flatten(orders))), nil
}

func (s *ReportService) Sales(ctx context.Context, req Requester, f report.Filter) (*transport.SalesReportResponse, error) {
	rows, err := s.rows(ctx, req, f)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.Row{}
	}
	return &transport.SalesReportResponse{
		Rows:  rows,
		Stats: report.Aggregate(slices.Values(rows)),
	}, nil
}

func (s *ReportService) Dashboard(ctx context.Context, req Requester, f report.Filter) (*transport.DashboardResponse, error) {
	f = f.Dashboard()
	rows, err := s.rows(ctx, req, f)
	if err != nil {
		return nil, err
	}
	return &transport.DashboardResponse{
		Stats: report.Aggregate(slices.Values(rows)),
		Chart: report.WeekdayChart(slices.Values(rows), location(f)),
	}, nil
}

func (s *ReportService) Summary(ctx context.Context, req Requester, bucket report.Bucket, f report.Filter) (*transport.SummaryResponse, error) {
	rows, err := s.rows(ctx, req, f)
	if err != nil {
		return nil, err
	}
	return &transport.SummaryResponse{
		Bucket: bucket,
		Items:  report.Ranked(report.SummarizeByName(slices.Values(rows), bucket)),
	}, nil
}

func location(f report.Filter) *time.Location {
	if f.Location == nil {
		return time.UTC
	}
	return f.Location
}
