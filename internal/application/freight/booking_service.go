// Package freight implements booking, container and product line use cases,
// including the container status machine and its quantity reconciliation.
package freight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tms/backend/internal/application/document"
	"github.com/tms/backend/internal/application/query"
	"github.com/tms/backend/internal/application/scope"
	"github.com/tms/backend/internal/domain/freight"
	"github.com/tms/backend/internal/domain/shared"
	"github.com/tms/backend/internal/domain/warehouse"
	"go.uber.org/zap"
)

const (
	// numberAttempts bounds retries when two bookings race for the same daily sequence
	numberAttempts = 3

	// MaxAttachmentSize is the largest accepted booking attachment (20MB)
	MaxAttachmentSize = 20 << 20
)

// BookingService handles container booking operations
type BookingService struct {
	bookingRepo   freight.BookingRepository
	containerRepo freight.ContainerRepository
	warehouseRepo warehouse.WarehouseRepository
	storage       document.ObjectStorage
	txScope       scope.TransactionScope
	logger        *zap.Logger
	now           func() time.Time
}

// NewBookingService creates a new BookingService. storage may be nil when attachments are disabled.
func NewBookingService(
	bookingRepo freight.BookingRepository,
	containerRepo freight.ContainerRepository,
	warehouseRepo warehouse.WarehouseRepository,
	storage document.ObjectStorage,
	txScope scope.TransactionScope,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookingRepo:   bookingRepo,
		containerRepo: containerRepo,
		warehouseRepo: warehouseRepo,
		storage:       storage,
		txScope:       txScope,
		logger:        logger,
		now:           time.Now,
	}
}

// Create creates a draft booking with the next number of the tenant's daily sequence
func (s *BookingService) Create(ctx context.Context, tenantID, actorID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	direction := freight.Direction(req.Direction)
	if !direction.IsValid() {
		return nil, shared.NewDomainErrorf("INVALID_DIRECTION", "Unknown booking direction %q", req.Direction)
	}
	if err := s.ensureWarehouseActive(ctx, tenantID, req.WarehouseID); err != nil {
		return nil, err
	}

	day := s.now().UTC()
	var b *freight.Booking
	var err error
	for attempt := 1; attempt <= numberAttempts; attempt++ {
		err = s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
			prefix := freight.BookingNumberPrefix(direction.NumberPrefix(), day)
			last, err := repos.BookingRepo().LastNumberWithPrefix(ctx, tenantID, prefix)
			if err != nil {
				return err
			}
			number := freight.FormatBookingNumber(direction.NumberPrefix(), day, shared.NextSequence(prefix, last))
			b, err = freight.NewBooking(tenantID, number, direction, req.WarehouseID, req.toDomain())
			if err != nil {
				return err
			}
			b.SetCreatedBy(actorID)
			if err := repos.BookingRepo().Save(ctx, b); err != nil {
				return err
			}
			repos.Track(b)
			return nil
		})
		if !errors.Is(err, shared.ErrAlreadyExists) {
			break
		}
		s.logger.Warn("Booking number taken, retrying", zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("booking_number", b.BookingNumber),
		zap.String("direction", string(b.Direction)),
	)
	resp := ToBookingResponse(b)
	return &resp, nil
}

// GetByID retrieves a booking
func (s *BookingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// List lists bookings; supports "direction", "status" and "warehouse_id" filters
func (s *BookingService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*query.Page[BookingResponse], error) {
	filter = filter.Normalize()
	items, err := s.bookingRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.bookingRepo.CountForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return query.NewPage(query.Map(items, ToBookingResponse), total, filter), nil
}

// Update replaces the shipping details of a draft or confirmed booking
func (s *BookingService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateBookingRequest) (*BookingResponse, error) {
	b, err := s.bookingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := b.Update(req.toDomain()); err != nil {
		return nil, err
	}
	if req.WarehouseID != nil && *req.WarehouseID != b.WarehouseID {
		if err := s.ensureWarehouseActive(ctx, tenantID, *req.WarehouseID); err != nil {
			return nil, err
		}
		if err := b.ChangeWarehouse(*req.WarehouseID); err != nil {
			return nil, err
		}
	}
	if err := s.bookingRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// Confirm commits a draft booking
func (s *BookingService) Confirm(ctx context.Context, tenantID, id uuid.UUID) (*BookingResponse, error) {
	return s.mutate(ctx, tenantID, id, "confirmed", func(_ scope.TransactionalRepositories, b *freight.Booking) error {
		return b.Confirm()
	})
}

// Cancel abandons a booking whose containers have not started moving
func (s *BookingService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*BookingResponse, error) {
	return s.mutate(ctx, tenantID, id, "cancelled", func(repos scope.TransactionalRepositories, b *freight.Booking) error {
		containers, err := repos.ContainerRepo().FindByBooking(ctx, tenantID, b.ID)
		if err != nil {
			return err
		}
		started := false
		for i := range containers {
			if !containers[i].IsInitial() {
				started = true
				break
			}
		}
		return b.Cancel(started)
	})
}

// Complete closes a booking once every container reached its terminal status
func (s *BookingService) Complete(ctx context.Context, tenantID, id uuid.UUID) (*BookingResponse, error) {
	return s.mutate(ctx, tenantID, id, "completed", func(repos scope.TransactionalRepositories, b *freight.Booking) error {
		containers, err := repos.ContainerRepo().FindByBooking(ctx, tenantID, b.ID)
		if err != nil {
			return err
		}
		return b.Complete(containers)
	})
}

func (s *BookingService) mutate(
	ctx context.Context,
	tenantID, id uuid.UUID,
	action string,
	apply func(repos scope.TransactionalRepositories, b *freight.Booking) error,
) (*BookingResponse, error) {
	var b *freight.Booking
	err := s.txScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		var err error
		b, err = repos.BookingRepo().FindByIDForUpdate(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := apply(repos, b); err != nil {
			return err
		}
		if err := repos.BookingRepo().Save(ctx, b); err != nil {
			return err
		}
		repos.Track(b)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Booking "+action, zap.String("booking_id", id.String()), zap.String("booking_number", b.BookingNumber))
	resp := ToBookingResponse(b)
	return &resp, nil
}

// Delete removes a draft booking that has no containers
func (s *BookingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	b, err := s.bookingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !b.CanDelete() {
		return shared.NewDomainErrorf("INVALID_STATE", "Only draft bookings can be deleted (current status: %s)", b.Status)
	}
	containers, err := s.containerRepo.FindByBooking(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if len(containers) > 0 {
		return shared.NewDomainErrorf("BOOKING_HAS_CONTAINERS", "Booking %s still has %d container(s)", b.BookingNumber, len(containers))
	}
	if err := s.bookingRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Booking deleted", zap.String("booking_id", id.String()), zap.String("booking_number", b.BookingNumber))
	return nil
}

// UploadAttachment stores a file against a booking and returns a download link
func (s *BookingService) UploadAttachment(
	ctx context.Context,
	tenantID, id uuid.UUID,
	fileName, contentType string,
	size int64,
	body io.Reader,
) (*AttachmentResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Attachment storage is not configured")
	}
	b, err := s.bookingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	name := sanitizeFileName(fileName)
	if name == "" {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "File name is required")
	}
	if size <= 0 || size > MaxAttachmentSize {
		return nil, shared.NewDomainErrorf(shared.ErrInvalidInput.Code, "Attachment must be between 1 byte and %d bytes", MaxAttachmentSize)
	}

	key := attachmentPrefix(tenantID, b.ID) + uuid.NewString() + "-" + name
	if err := s.storage.Upload(ctx, key, body, size, contentType); err != nil {
		return nil, fmt.Errorf("upload attachment: %w", err)
	}
	url, expiresAt, err := s.storage.DownloadURL(ctx, key, 0)
	if err != nil {
		return nil, fmt.Errorf("presign attachment: %w", err)
	}

	s.logger.Info("Booking attachment uploaded",
		zap.String("booking_id", b.ID.String()),
		zap.String("key", key),
		zap.Int64("size", size),
	)
	return &AttachmentResponse{
		Key:         key,
		FileName:    name,
		Size:        size,
		ContentType: contentType,
		URL:         url,
		ExpiresAt:   expiresAt,
		UploadedAt:  s.now(),
	}, nil
}

// ListAttachments returns the stored files of a booking with fresh download links
func (s *BookingService) ListAttachments(ctx context.Context, tenantID, id uuid.UUID) ([]AttachmentResponse, error) {
	if s.storage == nil {
		return []AttachmentResponse{}, nil
	}
	b, err := s.bookingRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	prefix := attachmentPrefix(tenantID, b.ID)
	objects, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	out := make([]AttachmentResponse, 0, len(objects))
	for _, obj := range objects {
		url, expiresAt, err := s.storage.DownloadURL(ctx, obj.Key, 0)
		if err != nil {
			return nil, fmt.Errorf("presign attachment: %w", err)
		}
		out = append(out, AttachmentResponse{
			Key:         obj.Key,
			FileName:    attachmentFileName(strings.TrimPrefix(obj.Key, prefix)),
			Size:        obj.Size,
			ContentType: obj.ContentType,
			URL:         url,
			ExpiresAt:   expiresAt,
			UploadedAt:  obj.LastModified,
		})
	}
	return out, nil
}

func (s *BookingService) ensureWarehouseActive(ctx context.Context, tenantID, warehouseID uuid.UUID) error {
	w, err := s.warehouseRepo.FindByIDForTenant(ctx, tenantID, warehouseID)
	if err != nil {
		return err
	}
	return w.EnsureActive()
}

func attachmentPrefix(tenantID, bookingID uuid.UUID) string {
	return fmt.Sprintf("tenants/%s/bookings/%s/attachments/", tenantID, bookingID)
}

// attachmentFileName strips the uuid- prefix added on upload
func attachmentFileName(base string) string {
	if len(base) > 37 && base[36] == '-' {
		if _, err := uuid.Parse(base[:36]); err == nil {
			return base[37:]
		}
	}
	return base
}

func sanitizeFileName(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f:
			return -1
		case r == ' ':
			return '_'
		}
		return r
	}, name)
}
