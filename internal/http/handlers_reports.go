package http

import (
	"net/http"
	"strings"

	"jizhang/internal/core"
	"jizhang/internal/log"
	"jizhang/internal/period"
)

// handlePeriods lists the selectable periods ending at today.
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	kind := period.Month
	if v := strings.TrimSpace(query.Get("kind")); v != "" {
		k, err := period.ParseKind(v)
		if err != nil {
			writeError(w, r, log.OpParse, err)
			return
		}
		kind = k
	}
	today := s.reports.Today()
	if v := strings.TrimSpace(query.Get("today")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, r, log.OpParse, err)
			return
		}
		today = d
	}

	periods, err := s.reports.Periods(kind, today)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, user string) {
	query := r.URL.Query()
	params, err := ParsePeriodParams(query, s.reports.Today())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	grouping, err := ParseGrouping(query)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	summary, err := s.reports.Summary(r.Context(), user, params.Kind, params.Date, grouping)
	if err != nil {
		writeError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request, user string) {
	query := r.URL.Query()
	params, err := ParsePeriodParams(query, s.reports.Today())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	kind, err := ParseRecordKind(query, "type", core.Expense)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	top, err := ParseTop(query)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	entries, err := s.reports.Ranking(r.Context(), user, params.Kind, params.Date, kind, top)
	if err != nil {
		writeError(w, r, log.OpRank, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request, user string) {
	query := r.URL.Query()
	params, err := ParsePeriodParams(query, s.reports.Today())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	kind, err := ParseRecordKind(query, "type", core.Expense)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}

	chart, err := s.reports.Chart(r.Context(), user, params.Kind, params.Date, kind)
	if err != nil {
		writeError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request, user string) {
	year, err := ParseYear(r.URL.Query(), s.reports.Today().Year())
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	report, err := s.reports.MonthlyReport(r.Context(), user, year)
	if err != nil {
		writeError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleYearlyReport(w http.ResponseWriter, r *http.Request, user string) {
	history, err := s.reports.YearlyReport(r.Context(), user)
	if err != nil {
		writeError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request, user string) {
	overview, err := s.reports.Overview(r.Context(), user)
	if err != nil {
		writeError(w, r, log.OpAggregate, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request, user string) {
	kind, err := ParseRecordKind(r.URL.Query(), "type", core.Expense)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	categories, err := s.reports.Categories(r.Context(), user, kind)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

type categoryOrderRequest struct {
	Type string   `json:"type"`
	IDs  []string `json:"ids"`
}

func (s *Server) handleSetCategoryOrder(w http.ResponseWriter, r *http.Request, user string) {
	var req categoryOrderRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	kind, err := core.ParseKind(req.Type)
	if err != nil {
		writeError(w, r, log.OpParse, err)
		return
	}
	if err := s.reports.SetCategoryOrder(r.Context(), user, kind, req.IDs); err != nil {
		writeError(w, r, log.OpUpdate, err)
		return
	}
	categories, err := s.reports.Categories(r.Context(), user, kind)
	if err != nil {
		writeError(w, r, log.OpList, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}
