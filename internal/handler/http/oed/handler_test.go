package oed_test

import (
	"context"
	"net/http"
	"net/http/httptest"

	"oed-api/internal/common/pagination"
	"oed-api/internal/domain/entity"
	"oed-api/internal/handler/http/oed"
	"oed-api/internal/repository"
	oedUC "oed-api/internal/usecase/oed"
)

/* ───────── stub repository ───────── */

type stubRepo struct {
	total     int64
	records   []repository.Record
	values    []string
	countErr  error
	fetchErr  error
	valuesErr error

	counted  []entity.Query
	fetched  []entity.Query
	distinct []string
}

func (s *stubRepo) Count(_ context.Context, q entity.Query) (int64, error) {
	s.counted = append(s.counted, q)
	return s.total, s.countErr
}

func (s *stubRepo) Fetch(_ context.Context, q entity.Query) ([]repository.Record, error) {
	s.fetched = append(s.fetched, q)
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.records, nil
}

func (s *stubRepo) DistinctValues(_ context.Context, column string) ([]string, error) {
	s.distinct = append(s.distinct, column)
	return s.values, s.valuesErr
}

/* ───────── helpers ───────── */

func newMux(repo *stubRepo, threshold int) *http.ServeMux {
	svc := &oedUC.Service{Repo: repo, Pagination: pagination.Config{AutoThreshold: threshold}}
	mux := http.NewServeMux()
	oed.Register(mux, svc, nil)
	return mux
}

func serve(mux http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "http://example.com"+target, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func ecRecords(n int) []repository.Record {
	out := make([]repository.Record, n)
	for i := range out {
		out[i] = repository.NewRecord([]string{"ec"}, []any{"1.1.1.1"})
	}
	return out
}
