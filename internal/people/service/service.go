// Package service implements the business rules for the people module:
// document uniqueness on create and update, pagination contracts, soft
// deactivation, and the roster export pipeline.
package service

import (
	"context"
	"os"
	"path/filepath"

	"registry_backend/internal/people/repository"
	"registry_backend/internal/people/transport"
	"registry_backend/internal/users"
	"registry_backend/platform/apperr"
	"registry_backend/platform/logger"
	"registry_backend/platform/phone"
)

const (
	msgDocumentInUse = "document already registered to another person"
	msgIDMismatch    = "payload id does not match target id"
)

// Renderer produces a roster report file on durable storage and returns
// its path.
type Renderer interface {
	Export(ctx context.Context, people []repository.Person) (string, error)
}

// Notifier hands the rendered report off for asynchronous email delivery.
// The send is fire-and-forget: a nil return means dispatch was accepted,
// not that the mail was delivered.
type Notifier interface {
	EmitRosterExport(ctx context.Context, to, recipientName, fileName string, attachment []byte) error
}

// UserLookup resolves the requesting user via the remote user service.
type UserLookup interface {
	FindOne(ctx context.Context, id int64) (users.User, error)
}

// Archiver stores a copy of the generated report in object storage.
type Archiver interface {
	StoreExport(ctx context.Context, objectKey string, data []byte) (string, error)
}

// Recorder persists an audit row for each export run.
type Recorder interface {
	RecordExport(ctx context.Context, requestedBy int64, recipient, filePath string, objectKey *string) error
}

// Service provides business logic for people.
type Service struct {
	repo        repository.Repository
	lookup      UserLookup
	renderer    Renderer
	notifier    Notifier
	archive     Archiver // optional
	recorder    Recorder // optional
	phoneRegion string
	log         *logger.Logger
}

// New creates a new people service. archive and recorder may be nil.
func New(repo repository.Repository, lookup UserLookup, renderer Renderer, notifier Notifier, archive Archiver, recorder Recorder, phoneRegion string, log *logger.Logger) *Service {
	return &Service{
		repo:        repo,
		lookup:      lookup,
		renderer:    renderer,
		notifier:    notifier,
		archive:     archive,
		recorder:    recorder,
		phoneRegion: phoneRegion,
		log:         log,
	}
}

// Create registers a new person. The candidate document must not already be
// held by any record, active or inactive; a duplicate is rejected before any
// write happens.
func (s *Service) Create(ctx context.Context, req transport.CreatePersonRequest) (transport.PersonResponse, error) {
	existing, err := s.repo.FindByDocument(ctx, req.Document)
	if err != nil {
		return transport.PersonResponse{}, err
	}
	if existing != nil {
		return transport.PersonResponse{}, apperr.Conflict(msgDocumentInUse)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	p, err := s.repo.Create(ctx, repository.CreateParams{
		Name:       req.Name,
		Document:   req.Document,
		PostalCode: req.PostalCode,
		Address:    req.Address,
		Phone:      phone.Normalize(req.Phone, s.phoneRegion),
		Active:     active,
	})
	if err != nil {
		return transport.PersonResponse{}, err
	}

	s.log.Info("person created", "id", p.ID, "document", p.Document)
	return toResponse(p), nil
}

// List returns one page of people ordered per order, plus the total count of
// records ignoring pagination. Message is explicitly null on success.
func (s *Service) List(ctx context.Context, page, pageSize int, order transport.Order) (transport.PersonListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	items, total, err := s.repo.List(ctx, repository.ListParams{
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
		Order:  toRepoOrder(order),
	})
	if err != nil {
		return transport.PersonListResponse{}, err
	}

	responses := make([]transport.PersonResponse, len(items))
	for i, item := range items {
		responses[i] = toResponse(item)
	}

	return transport.PersonListResponse{
		Data:    responses,
		Count:   total,
		Message: nil,
	}, nil
}

// Get retrieves a person by ID. An absent record is a typed not-found
// failure rather than an empty result.
func (s *Service) Get(ctx context.Context, id int64) (transport.PersonResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PersonResponse{}, err
	}
	return toResponse(p), nil
}

// Update overwrites the stored record with req. The payload ID must equal id;
// a mismatch fails before any lookup or write. The document must not be held
// by a different record, but an unchanged own document is not a conflict.
func (s *Service) Update(ctx context.Context, id int64, req transport.UpdatePersonRequest) (transport.PersonResponse, error) {
	if req.ID != id {
		return transport.PersonResponse{}, apperr.BadRequest(msgIDMismatch)
	}

	holder, err := s.repo.FindByDocument(ctx, req.Document)
	if err != nil {
		return transport.PersonResponse{}, err
	}
	if holder != nil && holder.ID != id {
		return transport.PersonResponse{}, apperr.Conflict(msgDocumentInUse)
	}

	p, err := s.repo.Update(ctx, repository.Person{
		ID:         id,
		Name:       req.Name,
		Document:   req.Document,
		PostalCode: req.PostalCode,
		Address:    req.Address,
		Phone:      phone.Normalize(req.Phone, s.phoneRegion),
		Active:     req.Active,
	})
	if err != nil {
		return transport.PersonResponse{}, err
	}

	s.log.Info("person updated", "id", p.ID)
	return toResponse(p), nil
}

// Unactivate soft-deletes a person by flipping the active flag. The returned
// boolean is the resulting active state, always false on success.
func (s *Service) Unactivate(ctx context.Context, id int64) (bool, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}

	p.Active = false
	saved, err := s.repo.Update(ctx, p)
	if err != nil {
		return false, err
	}

	s.log.Info("person unactivated", "id", id)
	return saved.Active, nil
}

// ExportPDF runs the roster export pipeline: resolve the requesting user,
// fetch the full roster, render it to a PDF, read the file back, and hand
// the bytes to the notifier for asynchronous email delivery. The returned
// true means generation and dispatch were initiated, not that the email was
// delivered. Any failure up to and including the dispatch handoff aborts the
// pipeline with no email queued.
func (s *Service) ExportPDF(ctx context.Context, userID int64, order transport.Order) (bool, error) {
	user, err := s.lookup.FindOne(ctx, userID)
	if err != nil {
		if apperr.GetKind(err) != apperr.KindUnknown {
			return false, err
		}
		return false, apperr.Wrap(apperr.KindInternal, "user lookup failed", err)
	}

	roster, err := s.repo.ListAll(ctx, toRepoOrder(order))
	if err != nil {
		return false, err
	}

	path, err := s.renderer.Export(ctx, roster)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "report generation failed", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "report file read failed", err)
	}

	// Archive and audit are best-effort supplements; neither blocks delivery.
	var objectKey *string
	if s.archive != nil {
		key := filepath.Base(path)
		storedKey, err := s.archive.StoreExport(ctx, key, data)
		if err != nil {
			s.log.Warn("export archive failed", "error", err, "key", key)
		} else {
			objectKey = &storedKey
		}
	}

	if err := s.notifier.EmitRosterExport(ctx, user.Email, user.Name, filepath.Base(path), data); err != nil {
		return false, apperr.Wrap(apperr.KindInternal, "export dispatch failed", err)
	}

	if s.recorder != nil {
		if err := s.recorder.RecordExport(ctx, userID, user.Email, path, objectKey); err != nil {
			s.log.Warn("export audit record failed", "error", err)
		}
	}

	s.log.Info("roster export dispatched", "userId", userID, "recipient", user.Email, "people", len(roster), "file", path)
	return true, nil
}

func toResponse(p repository.Person) transport.PersonResponse {
	return transport.PersonResponse{
		ID:         p.ID,
		Name:       p.Name,
		Document:   p.Document,
		PostalCode: p.PostalCode,
		Address:    p.Address,
		Phone:      p.Phone,
		Active:     p.Active,
	}
}

func toRepoOrder(order transport.Order) repository.Order {
	return repository.Order{Column: order.Column, Sort: order.Sort}
}
