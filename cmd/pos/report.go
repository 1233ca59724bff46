package main

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Apurer/boba-pos/internal/app/pos"
	reportsdomain "github.com/Apurer/boba-pos/internal/domains/reports/domain"
)

type reportFlags struct {
	limit     int
	from, to  string
	since     string
	day       string
	period    string
	threshold int
}

type reportFunc func(ctx context.Context, app *pos.App, f reportFlags) (any, error)

var reports = map[string]reportFunc{
	"top-sellers": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		window, err := f.window()
		if err != nil {
			return nil, err
		}
		return app.Reports.TopSellers(ctx, f.limit, window)
	},
	"worst-sellers": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		window, err := f.window()
		if err != nil {
			return nil, err
		}
		return app.Reports.WorstSellers(ctx, f.limit, window)
	},
	"revenue": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		window, err := f.window()
		if err != nil {
			return nil, err
		}
		total, err := app.Reports.Revenue(ctx, window)
		if err != nil {
			return nil, err
		}
		return map[string]any{"revenue": total.StringFixed(2)}, nil
	},
	"revenue-summary": func(ctx context.Context, app *pos.App, _ reportFlags) (any, error) {
		return app.Reports.RevenueSummary(ctx)
	},
	"product-usage": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		since, err := parseTime("since", f.since)
		if err != nil {
			return nil, err
		}
		return app.Reports.ProductUsage(ctx, since)
	},
	"category-popularity": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		window, err := f.window()
		if err != nil {
			return nil, err
		}
		return app.Reports.CategoryPopularity(ctx, window)
	},
	"stock-outs": func(ctx context.Context, app *pos.App, _ reportFlags) (any, error) {
		return app.Reports.StockOuts(ctx)
	},
	"low-stock": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		return app.Reports.LowStock(ctx, f.threshold)
	},
	"sales-by-hour": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		day, err := f.dayOrToday()
		if err != nil {
			return nil, err
		}
		return app.Reports.SalesByHour(ctx, day)
	},
	"daily-summary": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		day, err := f.dayOrToday()
		if err != nil {
			return nil, err
		}
		return app.Reports.DailySummary(ctx, day)
	},
	"staff-hours": func(ctx context.Context, app *pos.App, _ reportFlags) (any, error) {
		return app.Reports.StaffHours(ctx)
	},
	"employee-performance": func(ctx context.Context, app *pos.App, f reportFlags) (any, error) {
		window, err := f.window()
		if err != nil {
			return nil, err
		}
		return app.Reports.EmployeePerformance(ctx, window)
	},
}

func reportNames() []string {
	names := make([]string, 0, len(reports))
	for name := range reports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func reportCommand(ctx context.Context, app *pos.App, args []string) (any, error) {
	if len(args) == 0 {
		return nil, invalidf("report: missing name, one of %s", strings.Join(reportNames(), ", "))
	}
	name := args[0]
	report, ok := reports[name]
	if !ok {
		return nil, invalidf("report: unknown report %q, one of %s", name, strings.Join(reportNames(), ", "))
	}
	var f reportFlags
	fs := newFlagSet("report " + name)
	fs.IntVar(&f.limit, "limit", 10, "maximum rows for ranked reports, 0 for all")
	fs.StringVar(&f.from, "from", "", "window start, RFC 3339 or YYYY-MM-DD")
	fs.StringVar(&f.to, "to", "", "window end (exclusive), RFC 3339 or YYYY-MM-DD")
	fs.StringVar(&f.period, "period", "", "today, week or month; overrides -from and -to")
	fs.StringVar(&f.since, "since", "", "product usage start; defaults to 30 days ago")
	fs.StringVar(&f.day, "day", "", "day for the X and Z reports; defaults to today")
	fs.IntVar(&f.threshold, "threshold", 10, "low-stock threshold")
	if err := parse(fs, args[1:]); err != nil {
		return nil, err
	}
	return report(ctx, app, f)
}

func (f reportFlags) window() (reportsdomain.Window, error) {
	switch strings.ToLower(f.period) {
	case "":
	case "today":
		return reportsdomain.DayOf(time.Now()), nil
	case "week":
		return reportsdomain.WeekOf(time.Now()), nil
	case "month":
		return reportsdomain.MonthOf(time.Now()), nil
	default:
		return reportsdomain.Window{}, invalidf("-period %q: want today, week or month", f.period)
	}
	from, err := parseTime("from", f.from)
	if err != nil {
		return reportsdomain.Window{}, err
	}
	to, err := parseTime("to", f.to)
	if err != nil {
		return reportsdomain.Window{}, err
	}
	return reportsdomain.Window{From: from, To: to}, nil
}

func (f reportFlags) dayOrToday() (time.Time, error) {
	if f.day == "" {
		return time.Now(), nil
	}
	return parseTime("day", f.day)
}

// parseTime accepts RFC 3339 timestamps or local calendar dates. Empty yields the zero time.
func parseTime(name, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return time.Time{}, invalidf("-%s %q: want RFC 3339 or YYYY-MM-DD", name, raw)
	}
	return t, nil
}
