package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"registry_backend/internal/people/repository"
	"registry_backend/internal/people/transport"
	"registry_backend/internal/users"
	"registry_backend/platform/apperr"
	"registry_backend/platform/logger"
)

type fakeRepo struct {
	people     map[int64]repository.Person
	nextID     int64
	createCnt  int
	updateCnt  int
	lastParams repository.ListParams
	listErr    error
}

func newFakeRepo(seed ...repository.Person) *fakeRepo {
	r := &fakeRepo{people: make(map[int64]repository.Person), nextID: 1}
	for _, p := range seed {
		r.people[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (repository.Person, error) {
	p, ok := r.people[id]
	if !ok {
		return repository.Person{}, apperr.NotFound("person not found")
	}
	return p, nil
}

func (r *fakeRepo) FindByDocument(_ context.Context, document string) (*repository.Person, error) {
	for _, p := range r.people {
		if p.Document == document {
			match := p
			return &match, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Person, int, error) {
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	r.lastParams = params
	all := r.ordered()
	total := len(all)
	if params.Offset >= total {
		return []repository.Person{}, total, nil
	}
	end := params.Offset + params.Limit
	if end > total {
		end = total
	}
	return all[params.Offset:end], total, nil
}

func (r *fakeRepo) ListAll(_ context.Context, _ repository.Order) ([]repository.Person, error) {
	return r.ordered(), nil
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Person, error) {
	r.createCnt++
	p := repository.Person{
		ID:         r.nextID,
		Name:       params.Name,
		Document:   params.Document,
		PostalCode: params.PostalCode,
		Address:    params.Address,
		Phone:      params.Phone,
		Active:     params.Active,
	}
	r.people[p.ID] = p
	r.nextID++
	return p, nil
}

func (r *fakeRepo) Update(_ context.Context, person repository.Person) (repository.Person, error) {
	r.updateCnt++
	if _, ok := r.people[person.ID]; !ok {
		return repository.Person{}, apperr.NotFound("person not found")
	}
	r.people[person.ID] = person
	return person, nil
}

func (r *fakeRepo) ordered() []repository.Person {
	out := make([]repository.Person, 0, len(r.people))
	var id int64
	for id = 1; id < r.nextID; id++ {
		if p, ok := r.people[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

type fakeLookup struct {
	user  users.User
	err   error
	calls int
}

func (l *fakeLookup) FindOne(_ context.Context, _ int64) (users.User, error) {
	l.calls++
	return l.user, l.err
}

type fakeRenderer struct {
	dir   string
	err   error
	calls int
}

func (r *fakeRenderer) Export(_ context.Context, _ []repository.Person) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	path := filepath.Join(r.dir, "roster_test.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.7 test"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeNotifier struct {
	calls      int
	err        error
	to         string
	name       string
	fileName   string
	attachment []byte
}

func (n *fakeNotifier) EmitRosterExport(_ context.Context, to, recipientName, fileName string, attachment []byte) error {
	n.calls++
	n.to = to
	n.name = recipientName
	n.fileName = fileName
	n.attachment = attachment
	return n.err
}

type fakeArchiver struct {
	calls int
	err   error
	key   string
}

func (a *fakeArchiver) StoreExport(_ context.Context, objectKey string, _ []byte) (string, error) {
	a.calls++
	a.key = objectKey
	if a.err != nil {
		return "", a.err
	}
	return "2026/08/29/" + objectKey, nil
}

type fakeRecorder struct {
	calls     int
	objectKey *string
}

func (r *fakeRecorder) RecordExport(_ context.Context, _ int64, _, _ string, objectKey *string) error {
	r.calls++
	r.objectKey = objectKey
	return nil
}

func newTestService(repo repository.Repository, lookup UserLookup, renderer Renderer, notifier Notifier, archive Archiver, recorder Recorder) *Service {
	return New(repo, lookup, renderer, notifier, archive, recorder, "BR", logger.New("development"))
}

func defaultOrder() transport.Order {
	return transport.Order{Column: "id", Sort: "asc"}
}

func TestCreateRejectsDuplicateDocumentWithoutWriting(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "123", Active: true})
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	_, err := svc.Create(context.Background(), transport.CreatePersonRequest{Name: "Bea", Document: "123"})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if repo.createCnt != 0 {
		t.Fatalf("expected no create call after duplicate rejection, got %d", repo.createCnt)
	}
}

func TestCreateDefaultsActiveTrue(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	result, err := svc.Create(context.Background(), transport.CreatePersonRequest{Name: "Ana", Document: "123"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !result.Active {
		t.Fatalf("expected active to default to true")
	}
}

func TestCreateHonorsExplicitInactive(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	inactive := false
	result, err := svc.Create(context.Background(), transport.CreatePersonRequest{Name: "Ana", Document: "123", Active: &inactive})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Active {
		t.Fatalf("expected explicit inactive to be preserved")
	}
}

func TestCreateNormalizesPhone(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	result, err := svc.Create(context.Background(), transport.CreatePersonRequest{
		Name:     "Ana",
		Document: "123",
		Phone:    "(11) 98765-4321",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if result.Phone != "+5511987654321" {
		t.Fatalf("expected E.164 phone, got %q", result.Phone)
	}
}

func TestListComputesOffsetFromPage(t *testing.T) {
	repo := newFakeRepo(
		repository.Person{ID: 1, Name: "Ana", Document: "1", Active: true},
		repository.Person{ID: 2, Name: "Bea", Document: "2", Active: true},
		repository.Person{ID: 3, Name: "Caio", Document: "3", Active: true},
	)
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	result, err := svc.List(context.Background(), 2, 2, defaultOrder())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastParams.Offset != 2 || repo.lastParams.Limit != 2 {
		t.Fatalf("expected offset 2 limit 2, got offset %d limit %d", repo.lastParams.Offset, repo.lastParams.Limit)
	}
	if result.Count != 3 {
		t.Fatalf("expected total count 3 regardless of page, got %d", result.Count)
	}
	if len(result.Data) != 1 || result.Data[0].ID != 3 {
		t.Fatalf("expected second page to hold the third record, got %+v", result.Data)
	}
}

func TestListClampsInvalidPagination(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "1", Active: true})
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	if _, err := svc.List(context.Background(), 0, 0, defaultOrder()); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.lastParams.Offset != 0 || repo.lastParams.Limit != 10 {
		t.Fatalf("expected clamped offset 0 limit 10, got offset %d limit %d", repo.lastParams.Offset, repo.lastParams.Limit)
	}
}

func TestListMessageIsNull(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	result, err := svc.List(context.Background(), 1, 10, defaultOrder())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if result.Message != nil {
		t.Fatalf("expected nil message on success, got %q", *result.Message)
	}
	if result.Data == nil {
		t.Fatalf("expected empty slice, not nil data")
	}
}

func TestGetReturnsNotFoundForAbsentID(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	_, err := svc.Get(context.Background(), 42)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateRejectsIDMismatchBeforeAnyLookup(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "1", Active: true})
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	_, err := svc.Update(context.Background(), 1, transport.UpdatePersonRequest{ID: 2, Name: "Ana", Document: "1"})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request for id mismatch, got %v", err)
	}
	if repo.updateCnt != 0 {
		t.Fatalf("expected no update after id mismatch, got %d", repo.updateCnt)
	}
}

func TestUpdateIDMismatchWinsOverMissingRecord(t *testing.T) {
	// The mismatch check runs before any lookup, so a mismatching payload for
	// a nonexistent record still reports the mismatch, not a missing record.
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	_, err := svc.Update(context.Background(), 99, transport.UpdatePersonRequest{ID: 1, Name: "Ana", Document: "1"})
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("expected bad request for id mismatch, got %v", err)
	}
}

func TestUpdateAllowsKeepingOwnDocument(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "123", Active: true})
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	result, err := svc.Update(context.Background(), 1, transport.UpdatePersonRequest{ID: 1, Name: "Ana Maria", Document: "123", Active: true})
	if err != nil {
		t.Fatalf("expected unchanged own document to be accepted, got %v", err)
	}
	if result.Name != "Ana Maria" {
		t.Fatalf("expected updated name, got %q", result.Name)
	}
}

func TestUpdateRejectsDocumentHeldByAnotherPerson(t *testing.T) {
	repo := newFakeRepo(
		repository.Person{ID: 1, Name: "Ana", Document: "123", Active: true},
		repository.Person{ID: 2, Name: "Bea", Document: "456", Active: true},
	)
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	_, err := svc.Update(context.Background(), 2, transport.UpdatePersonRequest{ID: 2, Name: "Bea", Document: "123", Active: true})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict for stolen document, got %v", err)
	}
}

func TestUnactivateFlipsActiveAndReturnsResultingState(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "1", Active: true})
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	active, err := svc.Unactivate(context.Background(), 1)
	if err != nil {
		t.Fatalf("unactivate failed: %v", err)
	}
	if active {
		t.Fatalf("expected resulting active state false")
	}
	if repo.people[1].Active {
		t.Fatalf("expected stored record to be inactive")
	}
}

func TestUnactivateIsIdempotent(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "1", Active: false})
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	active, err := svc.Unactivate(context.Background(), 1)
	if err != nil {
		t.Fatalf("unactivate of inactive record failed: %v", err)
	}
	if active {
		t.Fatalf("expected false for already inactive record")
	}
}

func TestUnactivateMissingRecordReturnsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLookup{}, &fakeRenderer{}, &fakeNotifier{}, nil, nil)

	_, err := svc.Unactivate(context.Background(), 7)
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestExportPDFHappyPathDispatchesAttachment(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "1", Active: true})
	lookup := &fakeLookup{user: users.User{ID: 5, Name: "Admin", Email: "admin@example.com"}}
	renderer := &fakeRenderer{dir: t.TempDir()}
	notifier := &fakeNotifier{}
	archive := &fakeArchiver{}
	recorder := &fakeRecorder{}
	svc := newTestService(repo, lookup, renderer, notifier, archive, recorder)

	started, err := svc.ExportPDF(context.Background(), 5, defaultOrder())
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if !started {
		t.Fatalf("expected export to report initiation")
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", notifier.calls)
	}
	if notifier.to != "admin@example.com" || notifier.name != "Admin" {
		t.Fatalf("expected recipient from user lookup, got %q %q", notifier.to, notifier.name)
	}
	if notifier.fileName != "roster_test.pdf" {
		t.Fatalf("expected base file name, got %q", notifier.fileName)
	}
	if len(notifier.attachment) == 0 {
		t.Fatalf("expected attachment bytes from rendered file")
	}
	if archive.calls != 1 {
		t.Fatalf("expected archive upload, got %d calls", archive.calls)
	}
	if recorder.calls != 1 {
		t.Fatalf("expected audit record, got %d calls", recorder.calls)
	}
	if recorder.objectKey == nil || *recorder.objectKey != "2026/08/29/roster_test.pdf" {
		t.Fatalf("expected stored object key in audit record, got %v", recorder.objectKey)
	}
}

func TestExportPDFUserLookupFailureSkipsPipeline(t *testing.T) {
	repo := newFakeRepo()
	lookup := &fakeLookup{err: apperr.NotFound("user not found")}
	renderer := &fakeRenderer{dir: t.TempDir()}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, lookup, renderer, notifier, nil, nil)

	_, err := svc.ExportPDF(context.Background(), 5, defaultOrder())
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("expected not found from user lookup, got %v", err)
	}
	if renderer.calls != 0 {
		t.Fatalf("expected renderer untouched after lookup failure, got %d calls", renderer.calls)
	}
	if notifier.calls != 0 {
		t.Fatalf("expected no dispatch after lookup failure, got %d calls", notifier.calls)
	}
}

func TestExportPDFUntypedLookupErrorBecomesInternal(t *testing.T) {
	repo := newFakeRepo()
	lookup := &fakeLookup{err: errors.New("connection refused")}
	svc := newTestService(repo, lookup, &fakeRenderer{dir: t.TempDir()}, &fakeNotifier{}, nil, nil)

	_, err := svc.ExportPDF(context.Background(), 5, defaultOrder())
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error for transport failure, got %v", err)
	}
}

func TestExportPDFRendererFailurePreventsDispatch(t *testing.T) {
	repo := newFakeRepo(repository.Person{ID: 1, Name: "Ana", Document: "1", Active: true})
	lookup := &fakeLookup{user: users.User{ID: 5, Name: "Admin", Email: "admin@example.com"}}
	renderer := &fakeRenderer{err: errors.New("disk full")}
	notifier := &fakeNotifier{}
	svc := newTestService(repo, lookup, renderer, notifier, nil, nil)

	started, err := svc.ExportPDF(context.Background(), 5, defaultOrder())
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error from renderer, got %v", err)
	}
	if started {
		t.Fatalf("expected false when pipeline aborts")
	}
	if notifier.calls != 0 {
		t.Fatalf("expected no dispatch after render failure, got %d calls", notifier.calls)
	}
}

func TestExportPDFDispatchFailureSurfaces(t *testing.T) {
	repo := newFakeRepo()
	lookup := &fakeLookup{user: users.User{ID: 5, Name: "Admin", Email: "admin@example.com"}}
	renderer := &fakeRenderer{dir: t.TempDir()}
	notifier := &fakeNotifier{err: errors.New("redis down")}
	svc := newTestService(repo, lookup, renderer, notifier, nil, nil)

	started, err := svc.ExportPDF(context.Background(), 5, defaultOrder())
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("expected internal error from dispatch, got %v", err)
	}
	if started {
		t.Fatalf("expected false when dispatch fails")
	}
}

func TestExportPDFArchiveFailureDoesNotBlockDispatch(t *testing.T) {
	repo := newFakeRepo()
	lookup := &fakeLookup{user: users.User{ID: 5, Name: "Admin", Email: "admin@example.com"}}
	renderer := &fakeRenderer{dir: t.TempDir()}
	notifier := &fakeNotifier{}
	archive := &fakeArchiver{err: errors.New("bucket gone")}
	recorder := &fakeRecorder{}
	svc := newTestService(repo, lookup, renderer, notifier, archive, recorder)

	started, err := svc.ExportPDF(context.Background(), 5, defaultOrder())
	if err != nil || !started {
		t.Fatalf("expected export to succeed despite archive failure, got %v", err)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected dispatch to proceed, got %d calls", notifier.calls)
	}
	if recorder.objectKey != nil {
		t.Fatalf("expected nil object key after failed archive, got %q", *recorder.objectKey)
	}
}
