package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/padipos/padipos/internal/apperr"
	"github.com/padipos/padipos/internal/report"
	"github.com/padipos/padipos/internal/service"
	"github.com/padipos/padipos/pkg/logging"
)

const dateLayout = "2006-01-02"

type ReportHTTP struct {
	Svc *service.ReportService
	// Location is used when the request carries no tz parameter.
	Location *time.Location
}

// filter reads dateStart, dateEnd, tz, category, orderType, keyword and
// excludeArchived from the query string.
func (h *ReportHTTP) filter(c echo.Context) (report.Filter, error) {
	loc := h.Location
	if loc == nil {
		loc = time.UTC
	}
	if tz := c.QueryParam("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return report.Filter{}, fmt.Errorf("%w: tz %q", apperr.ErrValidation, tz)
		}
		loc = l
	}

	f := report.Filter{
		Location:  loc,
		Category:  strings.TrimSpace(c.QueryParam("category")),
		OrderType: strings.TrimSpace(c.QueryParam("orderType")),
		Keyword:   strings.TrimSpace(c.QueryParam("keyword")),
	}

	for name, dst := range map[string]**time.Time{"dateStart": &f.DateStart, "dateEnd": &f.DateEnd} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		d, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			return report.Filter{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperr.ErrValidation, name)
		}
		*dst = &d
	}

	if v := c.QueryParam("excludeArchived"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return report.Filter{}, fmt.Errorf("%w: excludeArchived must be a boolean", apperr.ErrValidation)
		}
		f.ExcludeArchived = b
	}
	return f, nil
}

func (h *ReportHTTP) Sales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.sales")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "sales_report_error", err)
	}
	f, err := h.filter(c)
	if err != nil {
		return fail(l, "sales_report_error", err)
	}

	resp, err := h.Svc.Sales(ctx, req, f)
	if err != nil {
		return fail(l, "sales_report_error", err)
	}

	l.Info("sales_report_success", "rows", len(resp.Rows), "revenue", resp.Stats.Revenue)
	return c.JSON(http.StatusOK, resp)
}

func (h *ReportHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.dashboard")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "dashboard_error", err)
	}
	f, err := h.filter(c)
	if err != nil {
		return fail(l, "dashboard_error", err)
	}

	resp, err := h.Svc.Dashboard(ctx, req, f)
	if err != nil {
		return fail(l, "dashboard_error", err)
	}

	l.Info("dashboard_success", "orders", resp.Stats.OrderCount)
	return c.JSON(http.StatusOK, resp)
}

func parseBucket(s string) (report.Bucket, error) {
	for _, b := range report.Buckets {
		if strings.EqualFold(s, string(b)) {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: bucket must be food, beverage or dessert", apperr.ErrValidation)
}

func (h *ReportHTTP) Summary(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "report.summary")

	req, err := requester(c)
	if err != nil {
		return unauthenticated(l, "summary_error", err)
	}
	bucket, err := parseBucket(c.QueryParam("bucket"))
	if err != nil {
		return fail(l, "summary_error", err)
	}
	f, err := h.filter(c)
	if err != nil {
		return fail(l, "summary_error", err)
	}
	if v := c.QueryParam("dashboard"); v != "" {
		paidOnly, err := strconv.ParseBool(v)
		if err != nil {
			return fail(l, "summary_error", fmt.Errorf("%w: dashboard must be a boolean", apperr.ErrValidation))
		}
		if paidOnly {
			f = f.Dashboard()
		}
	}

	resp, err := h.Svc.Summary(ctx, req, bucket, f)
	if err != nil {
		return fail(l, "summary_error", err)
	}

	l.Info("summary_success", "bucket", bucket, "items", len(resp.Items))
	return c.JSON(http.StatusOK, resp)
}
