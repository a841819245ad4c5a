package usecase

import (
	"context"
	"sync"

	"BauplanChecker/internal/domain"
	"BauplanChecker/internal/ports"
)

// fakeBackend implements ports.BackendClient with per-operation hooks and
// call counting, so tests can assert which network calls were (not) made.
type fakeBackend struct {
	mu    sync.Mutex
	calls map[string]int

	uploadPlanFn     func(filename string, content []byte) (domain.Plan, error)
	listPlansFn      func() ([]domain.Plan, error)
	requestCheckFn   func(planID string) error
	checkStatusFn    func(planID string) (domain.CheckStatus, error)
	submitFeedbackFn func(planID string, entry domain.FeedbackEntry) error
	deletePlanFn     func(planID string) error
	listNormsFn      func() (domain.NormCorpus, error)
	uploadNormFn     func(filename string, content []byte) (domain.NormUploadResult, error)
	deleteNormFn     func(filename string) error
	reindexNormsFn   func() (domain.ReindexResult, error)
	statisticsFn     func() (domain.Statistics, error)
}

var _ ports.BackendClient = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	return &fakeBackend{calls: map[string]int{}}
}

func (f *fakeBackend) count(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
}

func (f *fakeBackend) callCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeBackend) UploadPlan(_ context.Context, filename string, content []byte) (domain.Plan, error) {
	f.count("uploadPlan")
	if f.uploadPlanFn != nil {
		return f.uploadPlanFn(filename, content)
	}
	return domain.Plan{}, nil
}

func (f *fakeBackend) ListPlans(context.Context) ([]domain.Plan, error) {
	f.count("listPlans")
	if f.listPlansFn != nil {
		return f.listPlansFn()
	}
	return nil, nil
}

func (f *fakeBackend) RequestCheck(_ context.Context, planID string) error {
	f.count("requestCheck")
	if f.requestCheckFn != nil {
		return f.requestCheckFn(planID)
	}
	return nil
}

func (f *fakeBackend) CheckStatus(_ context.Context, planID string) (domain.CheckStatus, error) {
	f.count("checkStatus")
	if f.checkStatusFn != nil {
		return f.checkStatusFn(planID)
	}
	return domain.CheckStatus{PlanID: planID}, nil
}

func (f *fakeBackend) SubmitFeedback(_ context.Context, planID string, entry domain.FeedbackEntry) error {
	f.count("submitFeedback")
	if f.submitFeedbackFn != nil {
		return f.submitFeedbackFn(planID, entry)
	}
	return nil
}

func (f *fakeBackend) DeletePlan(_ context.Context, planID string) error {
	f.count("deletePlan")
	if f.deletePlanFn != nil {
		return f.deletePlanFn(planID)
	}
	return nil
}

func (f *fakeBackend) ListNorms(context.Context) (domain.NormCorpus, error) {
	f.count("listNorms")
	if f.listNormsFn != nil {
		return f.listNormsFn()
	}
	return domain.NormCorpus{}, nil
}

func (f *fakeBackend) UploadNorm(_ context.Context, filename string, content []byte) (domain.NormUploadResult, error) {
	f.count("uploadNorm")
	if f.uploadNormFn != nil {
		return f.uploadNormFn(filename, content)
	}
	return domain.NormUploadResult{Filename: filename}, nil
}

func (f *fakeBackend) DeleteNorm(_ context.Context, filename string) error {
	f.count("deleteNorm")
	if f.deleteNormFn != nil {
		return f.deleteNormFn(filename)
	}
	return nil
}

func (f *fakeBackend) ReindexNorms(context.Context) (domain.ReindexResult, error) {
	f.count("reindexNorms")
	if f.reindexNormsFn != nil {
		return f.reindexNormsFn()
	}
	return domain.ReindexResult{}, nil
}

func (f *fakeBackend) Statistics(context.Context) (domain.Statistics, error) {
	f.count("statistics")
	if f.statisticsFn != nil {
		return f.statisticsFn()
	}
	return domain.Statistics{}, nil
}

func (f *fakeBackend) Health(context.Context) error {
	f.count("health")
	return nil
}
