package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/couchcryptid/fire-incident-analytics/internal/analytics"
	"github.com/couchcryptid/fire-incident-analytics/internal/domain"
)

// multipartMemory is the part of an upload kept in memory; the rest spills to
// temporary files.
const multipartMemory = 8 << 20

// datasetResponse describes a loaded dataset without its records.
type datasetResponse struct {
	*domain.Dataset
	Records int      `json:"records"`
	Summary []string `json:"summary"`
}

func newDatasetResponse(ds *domain.Dataset) datasetResponse {
	return datasetResponse{Dataset: ds, Records: ds.Len(), Summary: ds.Diagnostics.Summary()}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if s.maxUpload > 0 {
		if r.ContentLength > s.maxUpload {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", s.maxUpload))
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.writeError(w, r, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, `missing form file "file"`)
		return
	}
	defer file.Close()

	ds, err := s.ingester.Ingest(r.Context(), file, header.Filename)
	if err != nil {
		s.logger.Warn("upload rejected", "filename", header.Filename, "error", err,
			"request_id", middleware.GetReqID(r.Context()))
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("dataset uploaded", "dataset_id", ds.ID, "filename", header.Filename, "records", ds.Len())
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, newDatasetResponse(ds))
}

func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	ds, err := s.datasets.Current()
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	render.JSON(w, r, newDatasetResponse(ds))
}

// reportQuery holds the validated query parameters of a report request.
type reportQuery struct {
	Limit     *int     `validate:"omitempty,min=0,max=1000"`
	Districts []string `validate:"max=50,dive,required,max=200"`
}

func (s *Server) parseReportQuery(r *http.Request) (reportQuery, error) {
	values := r.URL.Query()
	var q reportQuery
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, fmt.Errorf("limit %q is not an integer", v)
		}
		q.Limit = &n
	}
	q.Districts = values["district"]
	if err := s.validate.Struct(q); err != nil {
		return q, fmt.Errorf("invalid query: %w", err)
	}
	return q, nil
}

type reportResponse struct {
	DatasetID string `json:"dataset_id"`
	Report    string `json:"report"`
	Result    any    `json:"result"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "report")
	if !slices.Contains(analytics.ReportNames(), name) {
		s.writeError(w, r, http.StatusNotFound, fmt.Sprintf("%s %q", analytics.ErrUnknownReport, name))
		return
	}

	q, err := s.parseReportQuery(r)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ds, err := s.datasets.Current()
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}

	start := time.Now()
	result, err := analytics.Build(name, ds.Records, analytics.Params{Limit: q.Limit, Districts: q.Districts})
	if err != nil {
		s.writeError(w, r, http.StatusNotFound, err.Error())
		return
	}
	s.metrics.ReportRequests.WithLabelValues(name).Inc()
	s.metrics.ReportDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	render.JSON(w, r, reportResponse{DatasetID: ds.ID, Report: name, Result: result})
}

func (s *Server) handleReportIndex(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]string{"reports": analytics.ReportNames()})
}
