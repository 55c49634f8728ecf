package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

type stubCandidateService struct {
	createFn func(ctx context.Context, in ports.CreateCandidateInput) (*domain.Candidate, error)
}

func (s *stubCandidateService) List(context.Context) ([]domain.CandidateSummary, error) {
	return nil, nil
}

func (s *stubCandidateService) Get(context.Context, int64) (*domain.Candidate, error) {
	return nil, domain.ErrCandidateNotFound
}

func (s *stubCandidateService) Create(ctx context.Context, in ports.CreateCandidateInput) (*domain.Candidate, error) {
	return s.createFn(ctx, in)
}

func (s *stubCandidateService) Rename(context.Context, int64, string) (*domain.Candidate, error) {
	return nil, domain.ErrCandidateNotFound
}

func (s *stubCandidateService) Delete(context.Context, int64) (*domain.Candidate, error) {
	return nil, domain.ErrCandidateNotFound
}

func TestCandidateHandler_Create_NewType(t *testing.T) {
	stub := &stubCandidateService{
		createFn: func(_ context.Context, in ports.CreateCandidateInput) (*domain.Candidate, error) {
			if in.Name != "Ann" || in.NewType != "musician" || in.TypeID != nil {
				t.Fatalf("unexpected input: %+v", in)
			}
			typeID := int64(1)
			return &domain.Candidate{ID: 5, Name: in.Name, TypeID: &typeID}, nil
		},
	}
	c, rec := newTestContext(http.MethodPost, "/candidates", `{"name":"Ann","newType":"musician"}`, "auth0|alice")

	if err := NewCandidateHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestCandidateHandler_Create_RequiresName(t *testing.T) {
	stub := &stubCandidateService{
		createFn: func(context.Context, ports.CreateCandidateInput) (*domain.Candidate, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	c, _ := newTestContext(http.MethodPost, "/candidates", `{"typeId":1}`, "auth0|alice")

	err := NewCandidateHandler(stub).Create(c)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCandidateHandler_Get_NotFound(t *testing.T) {
	c, _ := newTestContext(http.MethodGet, "/candidates/9", "", "")
	c.SetParamNames("id")
	c.SetParamValues("9")

	if err := NewCandidateHandler(&stubCandidateService{}).Get(c); !errors.Is(err, domain.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}
